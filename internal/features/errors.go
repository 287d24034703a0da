package features

import "errors"

// アタッチ処理と制御エンドポイントのエラー分類
var (
	// ErrResourceExhausted はシンクやチャネルの確保に失敗した場合のエラー
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrRegistrationFailed はデバイス登録をホスト環境に拒否された場合のエラー
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrInvalidArgument は制御エンドポイントへの不正な入力を表すエラー
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnavailable はスキャンコードストリームの購読に失敗した場合のエラー
	ErrUnavailable = errors.New("unavailable")
)
