package features

import (
	"errors"
	"testing"
)

// fakeModeRegister はモードレジスタの値だけを保持するフェイク
type fakeModeRegister struct {
	mode   byte
	writes int
}

func (f *fakeModeRegister) ReadMode() byte { return f.mode }

func (f *fakeModeRegister) WriteMode(mode byte) {
	f.mode = mode
	f.writes++
}

func TestModeEndpointShow(t *testing.T) {
	regs := &fakeModeRegister{mode: 0x09}
	e := NewModeEndpoint(regs)

	if got := e.Show(); got != "9\n" {
		t.Errorf("Show: got=%q, want=%q", got, "9\n")
	}

	regs.mode = 0xab
	if got := e.Show(); got != "ab\n" {
		t.Errorf("Show: got=%q, want=%q", got, "ab\n")
	}
}

func TestModeEndpointStore(t *testing.T) {
	for _, c := range []struct {
		name     string
		input    string
		wantN    int
		wantErr  bool
		wantMode byte
	}{
		{name: "plain hex", input: "09", wantN: 2, wantMode: 0x09},
		{name: "trailing newline", input: "11\n", wantN: 3, wantMode: 0x11},
		{name: "0x prefix", input: "0x80", wantN: 4, wantMode: 0x80},
		{name: "uppercase", input: "AB", wantN: 2, wantMode: 0xab},
		{name: "low 8 bits only", input: "1ff", wantN: 3, wantMode: 0xff},
		{name: "empty write is a no-op", input: "", wantN: 0},
		{name: "garbage", input: "zz", wantErr: true},
		{name: "whitespace only", input: " \n", wantErr: true},
	} {
		t.Run(c.name, func(t *testing.T) {
			regs := &fakeModeRegister{mode: 0x42}
			e := NewModeEndpoint(regs)

			n, err := e.Store([]byte(c.input))
			if c.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("Store(%q): got err=%v, want ErrInvalidArgument", c.input, err)
				}
				// 失敗した書き込みはハードウェアに触れない
				if regs.writes != 0 || regs.mode != 0x42 {
					t.Errorf("Store(%q): mode changed on failure: 0x%02x", c.input, regs.mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Store(%q): %v", c.input, err)
			}
			if n != c.wantN {
				t.Errorf("Store(%q): consumed got=%d, want=%d", c.input, n, c.wantN)
			}
			if c.wantN > 0 && regs.mode != c.wantMode {
				t.Errorf("Store(%q): mode got=0x%02x, want=0x%02x", c.input, regs.mode, c.wantMode)
			}
			if c.wantN == 0 && regs.writes != 0 {
				t.Errorf("Store(%q): unexpected hardware write", c.input)
			}
		})
	}
}

func TestModeEndpointRoundTrip(t *testing.T) {
	regs := &fakeModeRegister{}
	e := NewModeEndpoint(regs)

	if _, err := e.Store([]byte("09")); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got := e.Show(); got != "9\n" {
		t.Errorf("Show after Store: got=%q, want=%q", got, "9\n")
	}
}

func TestModeStateName(t *testing.T) {
	for _, c := range []struct {
		mode byte
		want string
	}{
		{0x00, "LAST"},
		{0x01, "STD"},
		{0x09, "STD"},
		{0x10, "OFF"},
		{0x08, "LAST"},
		{0x11, "ONMOV"},
		{0x99, "ONMOV"},
	} {
		if got := ModeStateName(c.mode); got != c.want {
			t.Errorf("ModeStateName(0x%02x): got=%q, want=%q", c.mode, got, c.want)
		}
	}
}
