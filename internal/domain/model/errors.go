package model

import "errors"

var (
	// ErrNoActiveTrip アクティブなトリップが存在しない
	ErrNoActiveTrip = errors.New("アクティブなトリップがありません")
	// ErrSavedTripNotFound 指定IDの保存済みトリップが存在しない
	ErrSavedTripNotFound = errors.New("保存済みトリップが見つかりません")
	// ErrInvalidShareToken 共有トークンを復元できない
	ErrInvalidShareToken = errors.New("共有トークンが不正です")
	// ErrInvalidTripName 保存名が空
	ErrInvalidTripName = errors.New("トリップ名は必須です")
	// ErrPlaceNotCached 指定IDのスポットがプレイスキャッシュにない
	ErrPlaceNotCached = errors.New("検索済みスポットが見つかりません")
	// ErrQuotaExceeded ストレージの容量上限を超えた
	ErrQuotaExceeded = errors.New("ストレージの容量上限を超えました")
)
