package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trotne/ideapad-slidebar/internal/consts"
)

// ModeRegister はモードレジスタの読み書きを切り出したインターフェース
type ModeRegister interface {
	ReadMode() byte
	WriteMode(mode byte)
}

// ModeEndpoint はモードレジスタとテキスト境界を橋渡しする構造体
// 値は16進の符号なしバイトとして読み書きする
type ModeEndpoint struct {
	regs ModeRegister
}

// NewModeEndpoint はモード制御エンドポイントを作成する
func NewModeEndpoint(regs ModeRegister) *ModeEndpoint {
	return &ModeEndpoint{regs: regs}
}

// Show は現在のモードバイトを小文字16進+改行で返す
func (e *ModeEndpoint) Show() string {
	return fmt.Sprintf("%x\n", e.regs.ReadMode())
}

// Store は16進テキストを解釈して下位8ビットをモードレジスタに書き込み、
// 消費したバイト数を返す。空入力は何もせず成功する
// 解釈できない入力はErrInvalidArgumentで失敗し、ハードウェアには触れない
func (e *ModeEndpoint) Store(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	s := strings.TrimSpace(string(buf))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	mode, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: 16進数として解釈できません: %q", ErrInvalidArgument, string(buf))
	}

	e.regs.WriteMode(byte(mode))
	return len(buf), nil
}

// ModeStateName は読み出したモードバイトが示す状態名を返す
// 意味を持つのは0x11でマスクした2ビットのみ
func ModeStateName(mode byte) string {
	switch mode & consts.ModeStateMask {
	case consts.ModeStateLast:
		return "LAST"
	case consts.ModeStateStd:
		return "STD"
	case consts.ModeStateOff:
		return "OFF"
	default:
		return "ONMOV"
	}
}
