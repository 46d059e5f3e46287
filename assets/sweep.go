package assets

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SweepBranding guards the branding dir against unbounded growth: only the
// current branding image is ever referenced, so everything but the
// most-recently-modified file gets deleted. Zero or one file is a no-op. The
// dir is created if missing so the sweep can run before any upload happened.
func (u *Uploads) SweepBranding() error {
	if err := os.MkdirAll(u.BrandingDir, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(u.BrandingDir)
	if err != nil {
		return err
	}

	type candidate struct {
		name  string
		mtime time.Time
	}
	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: entry.Name(), mtime: info.ModTime()})
	}
	if len(files) <= 1 {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].mtime.Before(files[j].mtime)
	})

	for _, f := range files[:len(files)-1] {
		if err := os.Remove(filepath.Join(u.BrandingDir, f.name)); err != nil {
			log.Printf("sweep branding %s: %v", f.name, err)
		}
	}
	log.Printf("swept %d old branding file(s), kept %s", len(files)-1, files[len(files)-1].name)
	return nil
}

// StartBrandingSweep runs one sweep immediately and then one per interval,
// until the returned stop function is called.
func (u *Uploads) StartBrandingSweep(interval time.Duration) (stop func()) {
	if err := u.SweepBranding(); err != nil {
		log.Printf("branding sweep: %v", err)
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := u.SweepBranding(); err != nil {
					log.Printf("branding sweep: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
