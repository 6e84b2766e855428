package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"planet-render/config"
	"planet-render/internal/logger"
	"planet-render/internal/opengl"
	"planet-render/planets"
	"planet-render/scene"
)

type programs struct {
	lit, sun, skybox *opengl.Program
	blur, composite  *opengl.Program
}

func (p *programs) all() []*opengl.Program {
	var out []*opengl.Program
	for _, prog := range []*opengl.Program{p.lit, p.sun, p.skybox, p.blur, p.composite} {
		if prog != nil {
			out = append(out, prog)
		}
	}
	return out
}

func (p *programs) scene() opengl.Programs {
	return opengl.Programs{Lit: p.lit, Sun: p.sun, Skybox: p.skybox}
}

func (p *programs) delete() {
	for _, prog := range p.all() {
		prog.Delete()
	}
}

// loadPrograms builds every shader program. Any failure is fatal.
func loadPrograms(res config.ResourcesConfig) (*programs, error) {
	p := &programs{}
	specs := []struct {
		dst        **opengl.Program
		name       string
		vert, frag string
	}{
		{&p.lit, "lit", "scene.vs", "scene.fs"},
		{&p.sun, "sun", "scene.vs", "sun.fs"},
		{&p.skybox, "skybox", "skybox.vs", "skybox.fs"},
		{&p.blur, "blur", "quad.vs", "blur.fs"},
		{&p.composite, "bloom_final", "quad.vs", "bloom_final.fs"},
	}
	for _, s := range specs {
		prog, err := opengl.LoadProgram(s.name, res.ShaderPath(s.vert), res.ShaderPath(s.frag))
		if err != nil {
			p.delete()
			return nil, fmt.Errorf("failed to load shaders: %w", err)
		}
		*s.dst = prog
	}
	return p, nil
}

// loadModels loads one model per body. A body whose model is missing is
// logged and simply not drawn.
func loadModels(res config.ResourcesConfig, r *opengl.SceneRenderer) {
	for _, body := range planets.Bodies {
		path := res.ObjectPath(body.String())
		m, err := scene.LoadModel(path)
		if err != nil {
			logger.Log.Warn("model not loaded",
				zap.Stringer("body", body), zap.String("path", path), zap.Error(err))
			continue
		}
		r.SetModel(body, m)
		logger.Log.Info("model loaded",
			zap.Stringer("body", body), zap.Int("textures", len(m.Textures)))
	}
}

func loadSkybox(ctx context.Context, res config.ResourcesConfig, r *opengl.SceneRenderer) error {
	paths := scene.CubeFacePaths(res.Path(res.Skybox), res.SkyboxExt)
	cm, err := scene.LoadCubeFaces(ctx, paths)
	if err != nil {
		return err
	}
	if err := r.SetSkybox(cm); err != nil {
		return err
	}
	logger.Log.Info("skybox loaded", zap.Int("size", cm.Size), zap.Strings("missing", cm.Missing()))
	return nil
}
