package skintone

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/AydanPirani/skintone/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently processed images.
const maxWorkers = 20

// validExtensions lists the supported source image extensions.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp"}

// Ops describes the inputs and outputs of a batch execution.
type Ops struct {
	// Src is an image file, a directory of images, a URL or the pipe name.
	Src string
	// Dst is the directory the artifacts and the reports are written into.
	Dst string
	// Landmarks is the landmark file of a single image, or the directory holding
	// the <image name>.json landmark files. When empty the landmark files are
	// looked up next to the images.
	Landmarks string
	// PipeName is the source name denoting the standard input.
	PipeName string
	// Format is the extension of the generated images. It defaults to ".jpg".
	Format  string
	Workers int
}

// result holds the outcome of processing a single image.
type result struct {
	path string
	err  error
}

// Execute runs the pipeline over the source of the operation and writes the outputs.
// Directories are processed recursively and concurrently. A failing image does not stop
// the processing of the others; the number of failures is reported in the returned error.
func (p *Processor) Execute(op *Ops) error {
	log := p.logger().WithField("run", uuid.NewString())

	if op.Format == "" {
		op.Format = ".jpg"
	}
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return errors.Wrapf(err, "unable to create the destination directory %s", op.Dst)
	}

	// Check if the source is a URL, a pipe name or a regular path.
	switch {
	case utils.IsValidUrl(op.Src):
		if op.Landmarks == "" {
			return fmt.Errorf("%w: a landmark file is required for remote images", ErrConfiguration)
		}
		tmp, err := utils.DownloadImage(op.Src)
		if err != nil {
			return err
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()

		name := strings.TrimSuffix(filepath.Base(op.Src), filepath.Ext(op.Src))
		return p.processStream(log, tmp, op.Landmarks, name, op.Dst, op)

	case op.PipeName != "" && op.Src == op.PipeName:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("`-` should be used with a pipe for stdin")
		}
		if op.Landmarks == "" {
			return fmt.Errorf("%w: a landmark file is required when reading from stdin", ErrConfiguration)
		}
		return p.processStream(log, os.Stdin, op.Landmarks, "stdin", op.Dst, op)
	}

	fs, err := os.Stat(op.Src)
	if err != nil {
		return errors.Wrap(err, "failed to load the source image")
	}
	if !fs.IsDir() {
		return p.processFile(log, op.Src, op.Dst, op)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, validExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			p.consumer(log, op, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var total, failed int
	for res := range ch {
		total++
		if res.err != nil {
			failed++
			log.WithField("image", res.path).WithError(res.err).Error("processing failed")
		}
	}
	if err := <-errc; err != nil {
		return errors.Wrap(err, "directory walk failed")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, total)
	}
	return nil
}

// consumer reads the path names from the paths channel and processes the images.
func (p *Processor) consumer(
	log logrus.FieldLogger,
	op *Ops,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		dst, err := outputDir(op.Src, src, op.Dst)
		if err == nil {
			err = p.processFile(log, src, dst, op)
		}

		select {
		case <-done:
			return
		case res <- result{path: src, err: err}:
		}
	}
}

// processFile processes an image file located on disk and writes the outputs into dst.
func (p *Processor) processFile(log logrus.FieldLogger, src, dst string, op *Ops) error {
	ctype, err := utils.DetectContentType(src)
	if err != nil {
		return errors.Wrap(err, "unable to read the source file")
	}
	if !strings.HasPrefix(ctype, "image/") {
		return fmt.Errorf("%s is not an image: %s", filepath.Base(src), ctype)
	}

	f, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "unable to open the source file")
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return p.processStream(log, f, landmarkPath(src, op.Landmarks), name, dst, op)
}

// outputDir mirrors the directory of src, relative to the root of the walk, under dst,
// so that equally named images of different subdirectories do not overwrite each other.
func outputDir(root, src, dst string) (string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(src))
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve the output directory of %s", src)
	}
	dir := filepath.Join(dst, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create the output directory %s", dir)
	}
	return dir, nil
}

// processStream analyzes an image and writes its artifacts and report into dst.
func (p *Processor) processStream(log logrus.FieldLogger, r io.Reader, lmPath, name, dst string, op *Ops) error {
	log = log.WithField("image", name)

	lf, err := os.Open(lmPath)
	if err != nil {
		return errors.Wrap(err, "unable to open the landmark file")
	}
	defer lf.Close()

	src, results, err := p.Process(r, lf)
	if src == nil {
		return err
	}
	if err != nil {
		// Some faces failed; keep the outputs of the others.
		log.WithError(err).Warn("some faces could not be analyzed")
	}

	for _, res := range results {
		if res.Artifacts == nil {
			continue
		}
		base := name
		if len(results) > 1 {
			base = fmt.Sprintf("%s_face%d", name, res.Face)
		}
		outputs := []struct {
			suffix string
			img    image.Image
		}{
			{"_MASKED", res.Artifacts.Masked},
			{"_INVERTED", res.Artifacts.Inverted},
			{"_DIFFUSE", res.Artifacts.Diffuse},
		}
		for _, out := range outputs {
			if werr := writeImage(filepath.Join(dst, base+out.suffix+op.Format), out.img); werr != nil {
				return werr
			}
		}
		log.WithFields(logrus.Fields{
			"face":          res.Face,
			"pre_cleaning":  res.Before,
			"post_cleaning": res.After,
		}).Info("face analyzed")
	}

	rf, ferr := os.Create(filepath.Join(dst, name+"_stats.json"))
	if ferr != nil {
		return errors.Wrap(ferr, "unable to create the report file")
	}
	defer rf.Close()
	if werr := NewReport(name, p.config().ColorSpace, results).Write(rf); werr != nil {
		return errors.Wrap(werr, "unable to write the report file")
	}
	return err
}

// writeImage encodes the image into a new file, removing the file in case of failure.
func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create the destination file")
	}
	if err := EncodeImage(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "unable to encode %s", filepath.Base(path))
	}
	return f.Close()
}

// landmarkPath returns the landmark file of an image. The landmarks option may name
// a file or a directory; when empty the file is looked up next to the image.
func landmarkPath(src, landmarks string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".json"
	if landmarks == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	if fs, err := os.Stat(landmarks); err == nil && fs.IsDir() {
		return filepath.Join(landmarks, name)
	}
	return landmarks
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported image file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(f.Name()))) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
