package skintone

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Write(t *testing.T) {
	cfg := rgbConfig()
	cfg.MinPixels = 0
	p, err := NewProcessor(cfg)
	require.NoError(t, err)

	img := uniformImage(imgWidth, imgHeight, skin)
	lms := faceLandmarks(withDisc(RightCheek, disc{0.75, 0.6, 0.05}))
	results, err := p.Analyze(img, []Landmarks{lms})
	require.NoError(t, err)

	rep := NewReport("face", RGB, results)
	require.Len(t, rep.Faces, 1)
	assert.Equal(t, []string{"right_cheek"}, rep.Faces[0].Gated)
	assert.Nil(t, rep.Faces[0].Nulled)
	require.Len(t, rep.Faces[0].Patches, 3)
	assert.Equal(t, "forehead", rep.Faces[0].Patches[0].Region)
	assert.Zero(t, rep.Faces[0].Patches[RightCheek].Pixels)

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "face", decoded["image"])
	assert.Equal(t, "rgb", decoded["color_space"])

	faces := decoded["faces"].([]interface{})
	face := faces[0].(map[string]interface{})
	assert.Equal(t, []interface{}{198.0, 140.0, 112.0}, face["mean_rgb"])
	assert.NotContains(t, face, "nulled")
	assert.Contains(t, face, "stats")
}

func TestReport_NoFaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReport("empty", YCbCr, nil).Write(&buf))
	assert.Contains(t, buf.String(), `"faces": []`)
}
