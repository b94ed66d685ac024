package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// Thumbnail generator for the public image folders. Scans gallery_images/
// and complains/ under the storage base and writes bounded JPEG thumbs into
// a thumbs/ sibling directory. Idempotent: existing thumbs are skipped.

const thumbWidth = 320

var verbose bool

func main() {
	baseFlag := flag.String("dir", defaultBase(), "storage base directory")
	watch := flag.Bool("watch", false, "Watch folders for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	folders := []string{
		filepath.Join(*baseFlag, "gallery_images"),
		filepath.Join(*baseFlag, "complains"),
	}

	w := effectiveWorkers(*workers)
	for _, dir := range folders {
		files := listImageFiles(dir)
		log.Printf("Scanning %s: %d files (workers=%d)", dir, len(files), w)
		scanPool(dir, files, w)
	}

	if *watch {
		if err := watchFolders(folders, w); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func defaultBase() string {
	if v := os.Getenv("STORAGE_BASE"); v != "" {
		return v
	}
	return "storage"
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// scanPool processes a fixed file list and returns when every file is done.
func scanPool(dir string, files []string, workers int) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name)
			}
		}()
	}
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)
	wg.Wait()
}

// watchPool starts workers draining a channel for the watcher; it lives for
// the process lifetime, so the channel is never closed.
func watchPool(dir string, workers int) chan<- string {
	fileCh := make(chan string, 256)
	for i := 0; i < workers; i++ {
		go func() {
			for name := range fileCh {
				processSingleFile(dir, name)
			}
		}()
	}
	return fileCh
}

func watchFolders(dirs []string, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	chans := make(map[string]chan<- string, len(dirs))
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		chans[dir] = watchPool(dir, workers)
	}
	log.Printf("Watching %s (debounced) ...", strings.Join(dirs, ", "))

	// debounce map of pending files, flushed once stable
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if !isSupportedExt(filepath.Base(ev.Name)) {
					continue
				}
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					dir := filepath.Dir(path)
					if ch, ok := chans[dir]; ok {
						ch <- filepath.Base(path)
					}
					delete(pending, path)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// processSingleFile writes dir/thumbs/<name>.jpg if it does not exist yet.
func processSingleFile(dir, name string) {
	thumbDir := filepath.Join(dir, "thumbs")
	dst := filepath.Join(thumbDir, strings.TrimSuffix(name, filepath.Ext(name))+".jpg")
	if _, err := os.Stat(dst); err == nil {
		logV("SKIP thumb exists %s", name)
		return
	}
	img, err := imaging.Open(filepath.Join(dir, name))
	if err != nil {
		log.Printf("ERROR open %s: %v", name, err)
		return
	}
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		log.Printf("ERROR mkdir %s: %v", thumbDir, err)
		return
	}
	thumb := img
	if img.Bounds().Dx() > thumbWidth {
		thumb = imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	}
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(80)); err != nil {
		log.Printf("ERROR save thumb %s: %v", name, err)
		return
	}
	log.Printf("THUMB %s", dst)
}
