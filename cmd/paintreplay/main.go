// Command paintreplay replays a recorded drawing session on an offscreen
// canvas and prints a digest of the final artwork, for regression checks
// across drivers and GPUs.
//
// Usage:
//
//	paintreplay -session testdata/line.toml
package main

import (
	"crypto/sha256"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/integration/paintcanvas"
)

func main() {
	var (
		sessionPath = flag.String("session", "", "session file (.toml, .yaml)")
		verbose     = flag.Bool("v", false, "log canvas and GPU events")
	)
	flag.Parse()
	if *sessionPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	s, err := loadSession(*sessionPath)
	if err != nil {
		log.Fatalf("Failed to load session: %v", err)
	}

	start := time.Now()
	c := paintcanvas.New(paintcanvas.WithSettings(s.Settings))
	if err := c.Init(s.Width, s.Height); err != nil {
		log.Fatalf("Failed to create canvas: %v", err)
	}
	defer c.Close()
	setup := time.Since(start)

	start = time.Now()
	if err := replay(c, s.Events); err != nil {
		c.Close()
		log.Fatalf("Replay failed: %v", err)
	}
	if err := c.Render(nil); err != nil {
		c.Close()
		log.Fatalf("Render failed: %v", err)
	}
	img, err := c.Snapshot()
	if err != nil {
		c.Close()
		log.Fatalf("Readback failed: %v", err)
	}
	elapsed := time.Since(start)

	log.Printf("Replayed %d events in %v (setup %v), canvas %dx%d sha256 %x\n",
		len(s.Events), elapsed, setup, img.Bounds().Dx(), img.Bounds().Dy(), sha256.Sum256(img.Pix))
}
