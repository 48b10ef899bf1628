// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package paintcanvas connects the paint engine to a host window.
//
// A Canvas is created before the host window exists and becomes usable
// once the host calls Init with the window size. Until then every
// operation returns ErrNotReady. The data flow is:
//
//	host events -> Canvas -> transform -> interact.Machine -> gpu.Engine -> frame
//
// # Usage
//
//	canvas := paintcanvas.New(
//	    paintcanvas.WithSettings(settings),
//	    paintcanvas.WithWindow(app.WindowProvider()),
//	    paintcanvas.WithPlatform(app.PlatformProvider()),
//	    paintcanvas.WithEngineOptions(gpu.WithSurfaceHandles(display, window)),
//	)
//	defer canvas.Close()
//
//	app.OnReady(func(w, h int) {
//	    if err := canvas.Init(w, h); err != nil {
//	        log.Fatal(err)
//	    }
//	    canvas.Bind(app.EventSource())
//	})
//	app.OnDraw(func() { _ = canvas.Render(panel.Overlay) })
//
// # Parameter provider
//
// The Set* methods are the surface a settings panel drives. Every change
// to the rasterizer parameters re-previews the shape in progress.
// ApplySettings applies a whole config.Settings at once, for example from
// config.Watch.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. All calls, including the event
// callbacks installed by Bind, must come from the host's event goroutine.
package paintcanvas
