package opengl

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"planet-render/internal/logger"
	"planet-render/scene"
)

var errNilTexture = errors.New("nil texture")

type texParam struct {
	name  uint32
	value int32
}

var (
	surfaceParams = []texParam{
		{gl.TEXTURE_WRAP_S, gl.REPEAT},
		{gl.TEXTURE_WRAP_T, gl.REPEAT},
		{gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR},
		{gl.TEXTURE_MAG_FILTER, gl.LINEAR},
	}
	cubeParams = []texParam{
		{gl.TEXTURE_MIN_FILTER, gl.LINEAR},
		{gl.TEXTURE_MAG_FILTER, gl.LINEAR},
		{gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE},
		{gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE},
		{gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE},
	}
)

func applyParams(target uint32, params []texParam) {
	for _, p := range params {
		gl.TexParameteri(target, p.name, p.value)
	}
}

// texImage writes RGBA8 pixels into target, which is bound by the caller.
func texImage(target uint32, t *scene.Texture) {
	gl.TexImage2D(target, 0, gl.RGBA, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.Pixels))
}

// UploadTexture creates a mipmapped GL texture from tex and stores its id in
// tex.GLID. The GL context must be current.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return errNilTexture
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q: no pixel data", tex.Name)
	}

	gl.GenTextures(1, &tex.GLID)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	applyParams(gl.TEXTURE_2D, surfaceParams)
	texImage(gl.TEXTURE_2D, tex)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// UploadCubemap uploads the present faces of cm. Missing faces are logged
// and their storage left unwritten.
func UploadCubemap(cm *scene.Cubemap) error {
	if cm == nil {
		return errNilTexture
	}

	gl.GenTextures(1, &cm.GLID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.GLID)
	for i, face := range cm.Faces {
		if face == nil || len(face.Pixels) == 0 {
			logger.Log.Warn("cubemap face missing",
				zap.String("cubemap", cm.Name), zap.String("face", scene.CubeFaces[i]))
			continue
		}
		texImage(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), face)
	}
	applyParams(gl.TEXTURE_CUBE_MAP, cubeParams)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return nil
}

func deleteTexture(id *uint32) {
	if *id != 0 {
		gl.DeleteTextures(1, id)
		*id = 0
	}
}

// DeleteTexture frees an uploaded texture and zeroes its GLID.
func DeleteTexture(tex *scene.Texture) {
	if tex != nil {
		deleteTexture(&tex.GLID)
	}
}

func DeleteCubemap(cm *scene.Cubemap) {
	if cm != nil {
		deleteTexture(&cm.GLID)
	}
}
