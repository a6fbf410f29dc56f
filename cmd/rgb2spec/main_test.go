package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rgb2spec"
)

// fixture writes a flat 0.5 reflectance model and a 5x4 PNG.
func fixture(t *testing.T) (dir, model, img string) {
	t.Helper()
	dir = t.TempDir()

	m, err := rgb2spec.NewModel(2, []float32{0, 1}, make([]float32, rgb2spec.GridLen(2)))
	require.NoError(t, err)
	model = filepath.Join(dir, "flat.spec")
	require.NoError(t, m.Save(model))

	src := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for i := range src.Pix {
		src.Pix[i] = 200
		if i%4 == 3 {
			src.Pix[i] = 255
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	img = filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(img, buf.Bytes(), 0o600))
	return dir, model, img
}

func runCLI(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "usage:")

	code, stdout, _ := runCLI("help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "convert")

	code, stdout, _ = runCLI("info", "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "usage: rgb2spec info")
}

func TestRun_Convert(t *testing.T) {
	dir, model, img := fixture(t)
	nb := int64(len(rgb2spec.DefaultBands()))

	out := filepath.Join(dir, "cube.bin")
	code, stdout, stderr := runCLI("convert", img, model, out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, 5*4*nb*4, fileSize(t, out))
	assert.Contains(t, stdout, "5×4 pixels")

	alias := filepath.Join(dir, "alias.bin")
	code, _, stderr = runCLI(img, model, alias)
	require.Equal(t, 0, code, stderr)
	a, err := os.ReadFile(out)
	require.NoError(t, err)
	b, err := os.ReadFile(alias)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_ConvertFlags(t *testing.T) {
	dir, model, img := fixture(t)

	out := filepath.Join(dir, "half.bin")
	code, _, stderr := runCLI("convert", "-half", "-bands", "500:600:50", "-workers", "2", img, model, out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, int64(5*4*3*2), fileSize(t, out))

	out = filepath.Join(dir, "small.bin")
	code, _, stderr = runCLI("convert", "-max-size", "2", "-bands", "550", img, model, out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, int64(2*2*1*4), fileSize(t, out))
}

func TestRun_ConvertConfig(t *testing.T) {
	dir, model, img := fixture(t)
	cfg := filepath.Join(dir, "rgb2spec.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("encoding = \"float16\"\n[bands]\nlist = [450.0, 550.0]\n"), 0o600))

	out := filepath.Join(dir, "cfg.bin")
	code, _, stderr := runCLI("convert", "-config", cfg, img, model, out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, int64(5*4*2*2), fileSize(t, out))

	// Flags win over the file.
	code, _, stderr = runCLI("convert", "-config", cfg, "-half=false", img, model, out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, int64(5*4*2*4), fileSize(t, out))

	require.NoError(t, os.WriteFile(cfg, []byte("threads = 4\n"), 0o600))
	code, _, stderr = runCLI("convert", "-config", cfg, img, model, out)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config")
}

func TestRun_ConvertFailures(t *testing.T) {
	dir, model, img := fixture(t)
	out := filepath.Join(dir, "never.bin")

	bad := filepath.Join(dir, "bad.spec")
	require.NoError(t, os.WriteFile(bad, []byte("NOPE\x02\x00\x00\x00"), 0o600))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing model", []string{"convert", img, filepath.Join(dir, "missing.spec"), out}, "no such file"},
		{"bad magic", []string{"convert", img, bad, out}, "bad magic"},
		{"missing image", []string{"convert", filepath.Join(dir, "none.png"), model, out}, "none.png"},
		{"too few arguments", []string{"convert", img, model}, "usage"},
		{"unknown flag", []string{"convert", "-nope", img, model, out}, "usage"},
		{"bad bands", []string{"convert", "-bands", "700:400:10", img, model, out}, "invalid band grid"},
		{"negative workers", []string{"convert", "-workers", "-2", img, model, out}, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(tt.args...)
			assert.Equal(t, 1, code)
			assert.Equal(t, 1, strings.Count(stderr, "\n"), "stderr: %q", stderr)
			assert.Contains(t, stderr, tt.want)
			assert.NoFileExists(t, out)
		})
	}
}

func TestRun_Info(t *testing.T) {
	_, model, _ := fixture(t)

	code, stdout, stderr := runCLI("info", model)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "resolution:   2\n")
	assert.Contains(t, stdout, "grid values:  72\n")
	assert.Contains(t, stdout, "file size:    304 B\n")
}

func TestRun_Eval(t *testing.T) {
	_, model, _ := fixture(t)

	code, stdout, stderr := runCLI("eval", "-srgb", "-bands", "450,550,650", model, "0.8", "0.3", "0.1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "major         0\n")
	assert.Equal(t, 3, strings.Count(stdout, "0.500000\n"))

	for _, bands := range []string{"0:1e20:1", "0:1e300:1e-10", "0:Inf:1"} {
		code, _, stderr = runCLI("eval", "-bands", bands, model, "0.8", "0.3", "0.1")
		assert.Equal(t, 1, code, bands)
		assert.Equal(t, 1, strings.Count(stderr, "\n"), "%s: %q", bands, stderr)
		assert.Contains(t, stderr, "invalid band grid")
	}

	code, _, _ = runCLI("eval", model, "0.8", "0.3", "1.5")
	assert.Equal(t, 1, code)
	code, _, _ = runCLI("eval", model, "0.8", "0.3")
	assert.Equal(t, 1, code)
}

func TestRun_Check(t *testing.T) {
	_, model, _ := fixture(t)

	code, stdout, stderr := runCLI("check", "-steps", "3", model)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "samples:  27\n")
	assert.Contains(t, stdout, "max:")

	code, _, stderr = runCLI("check", "-steps", "3", "-tolerance", "1e-9", model)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "above tolerance")

	for _, args := range [][]string{
		{"check", "-steps", "1", model},
		{"check", "-steps", "257", model},
		{"check", "-steps", "3000000", model},
		{"check", "-step", "1e-300", model},
		{"check", "-step", "1e-6", model},
	} {
		code, _, stderr = runCLI(args...)
		assert.Equal(t, 1, code, "%v", args)
		assert.Equal(t, 1, strings.Count(stderr, "\n"), "%v: %q", args, stderr)
	}
}

func TestRun_Plot(t *testing.T) {
	dir, model, _ := fixture(t)
	out := filepath.Join(dir, "curves.svg")

	code, _, stderr := runCLI("plot", "-o", out, model, "1", "0", "0", "0.2", "0.4", "0.9")
	require.Equal(t, 0, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	code, _, _ = runCLI("plot", "-o", out, model, "1", "0")
	assert.Equal(t, 1, code)
}

func TestParseBands(t *testing.T) {
	tests := []struct {
		in      string
		want    rgb2spec.Bands
		wantErr bool
	}{
		{"400:700:100", rgb2spec.Bands{400, 500, 600, 700}, false},
		{" 500 : 520 : 10 ", rgb2spec.Bands{500, 510, 520}, false},
		{"450,550,650", rgb2spec.Bands{450, 550, 650}, false},
		{"550", rgb2spec.Bands{550}, false},
		{"400:700", nil, true},
		{"650,550", nil, true},
		{"a:b:c", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBands(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, rgb2spec.ErrInvalidBands)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRGB(t *testing.T) {
	got, err := parseRGB([]string{"1", "0.5", "0"}, false)
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{1, 0.5, 0}}, got)

	got, err = parseRGB([]string{"1", "0.5", "0"}, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.214, got[0][1], 1e-3)

	for _, args := range [][]string{nil, {"1", "2"}, {"x", "0", "0"}, {"-0.1", "0", "0"}} {
		_, err := parseRGB(args, false)
		assert.ErrorIs(t, err, errUsage, "%v", args)
	}
}

