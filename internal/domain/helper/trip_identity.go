package helper

import "strconv"

// ComputeIdentity は出発地・目的地のプレイス参照からトリップIDを導出する
// 31倍の32bit文字列ハッシュを符号なし36進数で表したもの。順序を区別する (from,to と to,from は別ID)
// 暗号学的な一意性は保証しない。衝突した2つのトリップは同じストレージ区画を共有する
func ComputeIdentity(fromRef, toRef string) string {
	var h uint32
	for _, r := range fromRef + "-" + toRef {
		h = 31*h + uint32(r)
	}
	return strconv.FormatUint(uint64(h), 36)
}
