package features

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/trotne/ideapad-slidebar/internal/consts"
)

// kbdPortIO はi8042のステータス/データポートをエミュレートするフェイク
type kbdPortIO struct {
	queue []byte
}

func (p *kbdPortIO) Outb(port uint16, value byte) {}

func (p *kbdPortIO) Inb(port uint16) byte {
	switch port {
	case consts.PortKbdStatus:
		if len(p.queue) > 0 {
			return consts.KbdStatusOBF
		}
		return 0
	case consts.PortKbdData:
		if len(p.queue) == 0 {
			return 0xff
		}
		b := p.queue[0]
		p.queue = p.queue[1:]
		return b
	}
	return 0xff
}

func (p *kbdPortIO) Close() error { return nil }

func TestSharedIRQSource(t *testing.T) {
	port := &kbdPortIO{queue: []byte{0xe0, 0x3b}}
	s := CreateSharedIRQSource(port)

	for _, want := range []byte{0xe0, 0x3b} {
		b, ok := s.Read()
		if !ok {
			t.Fatalf("Read: got ok=false, want byte 0x%02x", want)
		}
		if b != want {
			t.Errorf("Read: got=0x%02x, want=0x%02x", b, want)
		}
	}

	// 出力バッファが空ならデータポートには触れない
	if _, ok := s.Read(); ok {
		t.Error("Read: got ok=true on empty output buffer")
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestSerioSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serio_raw0")
	if err := os.WriteFile(path, []byte{0xe0, 0xbb}, 0660); err != nil {
		t.Fatal(err)
	}

	s, err := CreateSerioSource(path)
	if err != nil {
		t.Fatalf("CreateSerioSource: %v", err)
	}
	defer s.Close()

	for _, want := range []byte{0xe0, 0xbb} {
		b, ok := s.Read()
		if !ok {
			t.Fatalf("Read: got ok=false, want byte 0x%02x", want)
		}
		if b != want {
			t.Errorf("Read: got=0x%02x, want=0x%02x", b, want)
		}
	}

	if _, ok := s.Read(); ok {
		t.Error("Read: got ok=true at end of stream")
	}
}

func TestSerioSourceMissingDevice(t *testing.T) {
	_, err := CreateSerioSource(filepath.Join(t.TempDir(), "serio_raw9"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("CreateSerioSource: got err=%v, want ErrUnavailable", err)
	}
}
