package features

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/trotne/ideapad-slidebar/internal/consts"
	"github.com/trotne/ideapad-slidebar/internal/types"
	"github.com/trotne/ideapad-slidebar/internal/utils"
)

// スライドバー入力を配送するシンクを表現するインターフェース
// 各メソッドは1入力フレームを書き、同期イベントで締める
type Slidebar interface {
	TouchDown(pos byte) error
	Move(pos byte) error
	TouchUp() error
	io.Closer
}

type virtualSlidebar struct {
	name       []byte
	deviceFile *os.File
	out        io.Writer
}

// CreateSlidebar はBTN_TOUCHとABS_X(0-255)を持つuinput仮想デバイスを作成する
func CreateSlidebar(path string, name []byte) (Slidebar, error) {
	fd, err := createSlidebarDevice(path, name)
	if err != nil {
		return nil, err
	}

	return &virtualSlidebar{name: name, deviceFile: fd, out: fd}, nil
}

func (vs *virtualSlidebar) Close() error {
	_ = releaseDevice(vs.deviceFile)
	return vs.deviceFile.Close()
}

func createSlidebarDevice(path string, name []byte) (*os.File, error) {
	deviceFile, err := createDeviceFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not create slidebar input device: %v", ErrResourceExhausted, err)
	}

	// キー入力イベント(EV_KEY)を登録する
	// タッチ状態をBTN_TOUCHとして通知できるようになる
	err = registerDevice(deviceFile, uintptr(consts.Key))
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("%w: キー入力イベント(EV_KEY)の登録に失敗しました: %v", ErrRegistrationFailed, err)
	}

	if err = utils.IOCtl(deviceFile, consts.SetKeyBit, uintptr(consts.BtnTouch)); err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("%w: キー入力種別の登録に失敗しました %v: %v", ErrRegistrationFailed, consts.BtnTouch, err)
	}

	// 絶対座標入力イベント(EV_ABS)を登録する
	// スライドバー上の指の位置をX軸として通知する
	err = registerDevice(deviceFile, uintptr(consts.Abs))
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("%w: 絶対座標入力イベント(EV_ABS)の登録に失敗しました: %v", ErrRegistrationFailed, err)
	}

	if err = utils.IOCtl(deviceFile, consts.SetAbsBit, uintptr(consts.AbsX)); err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("%w: 座標軸の登録に失敗しました %v: %v", ErrRegistrationFailed, consts.AbsX, err)
	}

	var absMin [consts.AbsSize]int32
	var absMax [consts.AbsSize]int32

	absMin[consts.AbsX] = 0
	absMax[consts.AbsX] = 0xff

	userDev := types.UserDev{
		Name: toUinputName(name),
		ID: types.InputID{
			Bustype: consts.BusHost,
			Vendor:  0x17aa,
			Product: 0x3b01,
			Version: 1,
		},
		Absmin: absMin,
		Absmax: absMax,
	}

	fd, err := createHostDevice(deviceFile, userDev)
	if err != nil {
		_ = deviceFile.Close()
		return nil, fmt.Errorf("%w: デバイスの登録に失敗しました: %v", ErrRegistrationFailed, err)
	}

	return fd, nil
}

// タッチ開始を通知する
// ボタン状態は同一フレーム内で必ず位置より先に報告する
func (vs *virtualSlidebar) TouchDown(pos byte) error {
	events := []types.Event{
		{Type: consts.Key, Code: consts.BtnTouch, Value: 1},
		{Type: consts.Abs, Code: consts.AbsX, Value: int32(pos)},
		{Type: consts.Syn, Code: consts.SynReport, Value: 0},
	}

	return writeEvents(vs.out, events)
}

// タッチ位置を更新する
func (vs *virtualSlidebar) Move(pos byte) error {
	events := []types.Event{
		{Type: consts.Abs, Code: consts.AbsX, Value: int32(pos)},
		{Type: consts.Syn, Code: consts.SynReport, Value: 0},
	}

	return writeEvents(vs.out, events)
}

// タッチ終了を通知する
func (vs *virtualSlidebar) TouchUp() error {
	events := []types.Event{
		{Type: consts.Key, Code: consts.BtnTouch, Value: 0},
		{Type: consts.Syn, Code: consts.SynReport, Value: 0},
	}

	return writeEvents(vs.out, events)
}

// デバイスファイルを作成する
func createDeviceFile(path string) (fd *os.File, err error) {
	deviceFile, err := os.OpenFile(path, syscall.O_WRONLY|syscall.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("デバイスファイルを開くのに失敗しました: %v", err)
	}
	return deviceFile, err
}

// デバイスを解放する
func releaseDevice(deviceFile *os.File) error {
	return utils.IOCtl(deviceFile, consts.DevDestroy, uintptr(0))
}

// デバイスを登録する
func registerDevice(deviceFile *os.File, evType uintptr) error {
	err := utils.IOCtl(deviceFile, consts.SetEvBit, evType)
	if err != nil {
		return fmt.Errorf("イベントビットの設定に失敗しました: %v", err)
	}
	return nil
}

// ホストバスデバイスとしてuinputに登録する
func createHostDevice(deviceFile *os.File, dev types.UserDev) (fd *os.File, err error) {
	buf := new(bytes.Buffer)
	err = binary.Write(buf, binary.LittleEndian, dev)
	if err != nil {
		return nil, fmt.Errorf("ユーザーデバイスバッファの書き込みに失敗しました: %v", err)
	}
	_, err = deviceFile.Write(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("デバイス構造体をデバイスファイルに書き込むのに失敗しました: %v", err)
	}

	err = utils.IOCtl(deviceFile, consts.DevCreate, uintptr(0))
	if err != nil {
		return nil, fmt.Errorf("デバイスの作成に失敗しました: %v", err)
	}

	return deviceFile, err
}

// 1フレーム分のイベント列をまとめて書き込む
// フレームは消費側から1つのアトミックな更新として観測される
func writeEvents(w io.Writer, events []types.Event) error {
	buf := new(bytes.Buffer)
	for _, ev := range events {
		if err := binary.Write(buf, binary.LittleEndian, ev); err != nil {
			return fmt.Errorf("イベントをバッファに書き込むのに失敗しました: %v", err)
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("イベントの書き込みに失敗しました: %v", err)
	}
	return nil
}

// 名前をuinput用の固定長配列に変換する
func toUinputName(name []byte) (uinputName [consts.MaxNameSize]byte) {
	var fixedSizeName [consts.MaxNameSize]byte
	copy(fixedSizeName[:], name)
	return fixedSizeName
}
