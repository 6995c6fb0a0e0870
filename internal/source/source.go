// Package source decodes window-manager events from a newline-delimited
// JSON stream.
package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/mj1618/wsbar/internal/model"
	log "github.com/sirupsen/logrus"
)

// maxLine bounds a single encoded event.
const maxLine = 1 << 20

// Stream reads events from r until EOF or ctx is cancelled. Blank lines are
// skipped and malformed lines are logged and dropped. The events channel is
// closed when reading stops; the error channel then yields at most one read
// error and is closed too.
func Stream(ctx context.Context, r io.Reader) (<-chan model.Event, <-chan error) {
	events := make(chan model.Event, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(events)

		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLine)
		line := 0
		for sc.Scan() {
			line++
			data := bytes.TrimSpace(sc.Bytes())
			if len(data) == 0 {
				continue
			}
			e, err := model.ParseEvent(data)
			if err != nil {
				log.WithField("line", line).Warnf("dropping event: %v", err)
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errs <- fmt.Errorf("read events: %w", err)
		}
	}()

	return events, errs
}

// ReadAll decodes every event in r. Malformed lines are dropped as in Stream.
func ReadAll(r io.Reader) ([]model.Event, error) {
	events, errs := Stream(context.Background(), r)
	var out []model.Event
	for e := range events {
		out = append(out, e)
	}
	if err := <-errs; err != nil {
		return out, err
	}
	return out, nil
}
