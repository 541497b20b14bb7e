package service

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"TripPlanner-App/internal/domain/model"
)

// SharedTripPath 共有URLのパス
const SharedTripPath = "/shared/trip"

// ShareQueryParam 共有URLでトークンを渡すクエリパラメータ名
const ShareQueryParam = "data"

// maxDecodedTokenBytes 展開後のJSONサイズ上限
const maxDecodedTokenBytes = 1 << 20

// ShareCodec はトリップ一式とURLに埋め込めるトークンを相互変換する
type ShareCodec interface {
	// Encode はセッションのアクティブなトリップ一式をトークン化する
	Encode(ctx context.Context, session *TripSessionStore) (string, error)

	// EncodeSnapshot はトリップ一式をトークン化する
	EncodeSnapshot(shared *model.SharedTrip) (string, error)

	// Decode はトークンを復元する。不正なトークンは model.ErrInvalidShareToken
	Decode(token string) (*model.SharedTrip, error)

	// ImportIntoActive はトークンを復元してセッションのアクティブなトリップとして展開する
	ImportIntoActive(ctx context.Context, session *TripSessionStore, token string) (*model.SharedTrip, error)

	// BuildShareURL は baseURL/shared/trip?data=<token> 形式の共有URLを組み立てる
	BuildShareURL(ctx context.Context, session *TripSessionStore, baseURL string) (string, error)
}

type shareCodec struct{}

// NewShareCodec は新しいShareCodecインスタンスを作成
func NewShareCodec() ShareCodec {
	return &shareCodec{}
}

func (c *shareCodec) Encode(ctx context.Context, session *TripSessionStore) (string, error) {
	shared, err := session.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return c.EncodeSnapshot(shared)
}

// EncodeSnapshot は JSON → raw DEFLATE → base64url (パディングなし) の順に変換する
func (c *shareCodec) EncodeSnapshot(shared *model.SharedTrip) (string, error) {
	if shared == nil || shared.Trip == nil {
		return "", model.ErrNoActiveTrip
	}

	data, err := json.Marshal(shared)
	if err != nil {
		return "", fmt.Errorf("共有データのJSONマーシャル失敗: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("圧縮の初期化に失敗: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("共有データの圧縮に失敗: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("共有データの圧縮に失敗: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

func (c *shareCodec) Decode(token string) (*model.SharedTrip, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("空のトークン: %w", model.ErrInvalidShareToken)
	}

	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("base64デコード失敗: %w", model.ErrInvalidShareToken)
	}

	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, maxDecodedTokenBytes+1))
	if err != nil {
		return nil, fmt.Errorf("展開失敗: %w", model.ErrInvalidShareToken)
	}
	if len(data) > maxDecodedTokenBytes {
		return nil, fmt.Errorf("展開後のサイズが上限を超えています: %w", model.ErrInvalidShareToken)
	}

	var shared model.SharedTrip
	if err := json.Unmarshal(data, &shared); err != nil {
		return nil, fmt.Errorf("JSONアンマーシャル失敗: %w", model.ErrInvalidShareToken)
	}
	if shared.Trip == nil || !shared.Trip.HasPlaceRefs() {
		return nil, fmt.Errorf("トリップ情報が含まれていません: %w", model.ErrInvalidShareToken)
	}
	return &shared, nil
}

func (c *shareCodec) ImportIntoActive(ctx context.Context, session *TripSessionStore, token string) (*model.SharedTrip, error) {
	shared, err := c.Decode(token)
	if err != nil {
		log.Printf("⚠️ 共有トリップを読み込めません: %v", err)
		return nil, err
	}

	if err := session.ActivateSnapshot(ctx, shared.Trip, shared.Route, shared.Places); err != nil {
		return nil, fmt.Errorf("共有トリップの展開に失敗: %w", err)
	}

	log.Printf("🔗 共有トリップを展開: %s (%s → %s)", shared.Trip.Identity, shared.Trip.From, shared.Trip.To)
	return shared, nil
}

func (c *shareCodec) BuildShareURL(ctx context.Context, session *TripSessionStore, baseURL string) (string, error) {
	token, err := c.Encode(ctx, session)
	if err != nil {
		return "", err
	}
	return ShareURL(baseURL, token), nil
}

// ShareURL はエンコード済みのトークンから共有URLを組み立てる
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + SharedTripPath + "?" + ShareQueryParam + "=" + url.QueryEscape(token)
}
