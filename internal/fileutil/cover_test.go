package fileutil

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/dbknih/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestBuildCoverFilename(t *testing.T) {
	assert.Equal(t, "Duna - Mesiáš - cover.jpg", BuildCoverFilename("Duna: Mesiáš"))
}

func TestSaveCover_Raw(t *testing.T) {
	env := testutil.NewTestEnv(t)
	data := testJPEG(t, 40, 60)

	written, err := SaveCover(data, env.Path("covers", "duna.jpg"), 0, false)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, data, env.ReadFile("covers/duna.jpg"))
}

func TestSaveCover_Resize(t *testing.T) {
	env := testutil.NewTestEnv(t)

	written, err := SaveCover(testJPEG(t, 400, 600), env.Path("duna.png"), 100, false)
	require.NoError(t, err)
	assert.True(t, written)

	img, err := imaging.Open(env.Path("duna.png"))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestSaveCover_NoUpscale(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := SaveCover(testJPEG(t, 50, 80), env.Path("small.jpg"), 300, false)
	require.NoError(t, err)

	img, err := imaging.Open(env.Path("small.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
}

func TestSaveCover_SkipsExisting(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("duna.jpg", []byte("old"))

	written, err := SaveCover(testJPEG(t, 10, 10), env.Path("duna.jpg"), 0, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, "old", env.ReadFileString("duna.jpg"))
}

func TestSaveCover_Errors(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := SaveCover(nil, env.Path("a.jpg"), 0, true)
	assert.Error(t, err)

	_, err = SaveCover([]byte("not an image"), env.Path("b.jpg"), 100, true)
	assert.ErrorContains(t, err, "failed to decode")
}
