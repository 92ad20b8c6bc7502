package app

import (
	"errors"
	"time"

	"github.com/ayusman/curlcount/internal/capture"
	"github.com/ayusman/curlcount/internal/log"
)

// runPipeline is the capture loop. Each tick reads one frame and:
//
//  1. checks it for motion; motion or active counting keeps the active rate
//     (15 FPS), 2s of stillness drops back to idle (5 FPS)
//  2. publishes it as a preview JPEG
//  3. in active mode, runs pose detection and hands the landmarks to
//     ProcessFrame
func (a *App) runPipeline(cam capture.Camera, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval(a.pacer.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			if fps, changed := a.step(cam, now); changed {
				cam.SetFPS(fps)
				ticker.Reset(interval(fps))
				log.Debug("frame rate changed", "fps", fps)
			}
		}
	}
}

// step processes one camera frame and returns the frame rate to use next.
func (a *App) step(cam capture.Camera, now time.Time) (fps int, changed bool) {
	frame, err := cam.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrNoFrame) {
			log.Debug("no frame", "error", err)
		} else {
			log.Warn("error reading frame", "error", err)
		}
		return a.pacer.FPS(), false
	}
	defer frame.Close()

	moving, _ := a.motion.Detect(frame)
	if a.IsEnabled() {
		a.pacer.Hold(now)
	}
	fps, changed = a.pacer.Observe(moving, now)

	if jpeg, err := capture.EncodeJPEG(frame, JPEGQuality); err == nil {
		a.frames.Put(jpeg)
	} else {
		log.Debug("preview encode failed", "error", err)
	}

	det := a.Detector()
	if !a.pacer.Active() || det == nil {
		return fps, changed
	}

	landmarks, err := det.Detect(frame)
	if err != nil {
		log.Warn("error detecting pose", "error", err)
		return fps, changed
	}
	a.ProcessFrame(landmarks, now)
	return fps, changed
}

func interval(fps int) time.Duration {
	if fps <= 0 {
		fps = capture.IdleFPS
	}
	return time.Second / time.Duration(fps)
}
