// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package paintcanvas

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/paint/internal/config"
	"github.com/gogpu/paint/internal/gpu"
)

// Option configures a Canvas.
type Option func(*options)

type options struct {
	settings   config.Settings
	window     gpucontext.WindowProvider
	platform   gpucontext.PlatformProvider
	engineOpts []gpu.Option
	onError    func(error)
	open       func(opts ...gpu.Option) (engine, error)
}

func defaultOptions() options {
	return options{
		settings: config.Default(),
		open:     openEngine,
	}
}

func openEngine(opts ...gpu.Option) (engine, error) {
	return gpu.New(opts...)
}

// WithSettings sets the initial panel settings. The texture size in s is
// fixed at Init.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithWindow sets the host window. Its scale factor converts window sizes
// to physical pixels and its RequestRedraw receives redraw requests.
func WithWindow(w gpucontext.WindowProvider) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithPlatform sets the platform provider used for cursor feedback.
func WithPlatform(p gpucontext.PlatformProvider) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithEngineOptions passes options to gpu.New, for example surface
// handles or a shared device.
func WithEngineOptions(opts ...gpu.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithErrorHandler sets the function receiving errors from event
// callbacks, which cannot return them. The default logs them at Error
// level.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
