package theme

import (
	"strings"
	"testing"
)

func TestFromRGB565(t *testing.T) {
	tests := []struct {
		in   uint16
		want RGB
	}{
		{0x0000, RGB{0, 0, 0}},
		{0xFFFF, RGB{255, 255, 255}},
		{0xF800, RGB{255, 0, 0}},
		{0x07E0, RGB{0, 255, 0}},
		{0x001F, RGB{0, 0, 255}},
		{0x4208, RGB{65, 64, 65}},
	}
	for _, tt := range tests {
		if got := FromRGB565(tt.in); got != tt.want {
			t.Errorf("FromRGB565(%#04x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseGPL(t *testing.T) {
	gpl := `GIMP Palette
Name: test
Columns: 2
# comment
  0   0   0	black
255 255 255	white
`
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "test" {
		t.Errorf("name: got %q", p.Name)
	}
	if len(p.Colors) != 2 {
		t.Fatalf("colors: got %d, want 2", len(p.Colors))
	}
	if got := p.Lookup(0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("empty palette accepted")
	}
}

func TestDefaultTheme(t *testing.T) {
	th := New(nil)
	if th.Palette.Name != "stepper" {
		t.Fatalf("palette: got %q", th.Palette.Name)
	}
	if got := th.RGB(RoleBG); got != FromRGB565(0x4208) {
		t.Errorf("bg: got %v", got)
	}
	if got := th.RGB(RoleAccent); got != FromRGB565(0xf40e) {
		t.Errorf("accent: got %v", got)
	}
}
