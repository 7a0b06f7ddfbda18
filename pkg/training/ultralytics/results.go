package ultralytics

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/nxadm/tail"
)

// resultsFile is the per-epoch metrics table the trainer appends to.
const resultsFile = "results.csv"

// Columns reported per epoch.
const (
	columnEpoch     = "epoch"
	columnBoxLoss   = "train/box_loss"
	columnPrecision = "metrics/precision(B)"
	columnRecall    = "metrics/recall(B)"
	columnMAP50     = "metrics/mAP50(B)"
	columnMAP5095   = "metrics/mAP50-95(B)"
)

// EpochMetrics is one row of the results table.
type EpochMetrics struct {
	Epoch     int
	BoxLoss   float64
	Precision float64
	Recall    float64
	MAP50     float64
	MAP5095   float64
}

// parseRecord splits one CSV line and trims the padding the trainer puts
// around fields.
func parseRecord(line string) ([]string, error) {
	record, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, err
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record, nil
}

// ParseEpoch decodes a results row using the column names in header.
func ParseEpoch(header []string, line string) (EpochMetrics, error) {
	record, err := parseRecord(line)
	if err != nil {
		return EpochMetrics{}, err
	}
	if len(record) != len(header) {
		return EpochMetrics{}, fmt.Errorf("row has %d fields, header has %d", len(record), len(header))
	}
	values := make(map[string]string, len(header))
	for i, name := range header {
		values[name] = record[i]
	}

	var m EpochMetrics
	epoch, ok := values[columnEpoch]
	if !ok {
		return m, errors.New("no epoch column")
	}
	if m.Epoch, err = strconv.Atoi(epoch); err != nil {
		return m, fmt.Errorf("epoch: %w", err)
	}
	for column, dst := range map[string]*float64{
		columnBoxLoss:   &m.BoxLoss,
		columnPrecision: &m.Precision,
		columnRecall:    &m.Recall,
		columnMAP50:     &m.MAP50,
		columnMAP5095:   &m.MAP5095,
	} {
		if v, ok := values[column]; ok {
			if *dst, err = strconv.ParseFloat(v, 64); err != nil {
				return m, fmt.Errorf("%s: %w", column, err)
			}
		}
	}
	return m, nil
}

// Timing of the final read after the trainer exits. The follower polls,
// so rows written just before exit may not have been picked up yet.
const (
	drainTimeout  = time.Second
	drainInterval = 25 * time.Millisecond
)

// resultsFollower logs each epoch as the trainer appends it.
type resultsFollower struct {
	path string
	tail *tail.Tail
	log  logging.Logger
	done chan struct{}
}

// followResults starts following path, which need not exist yet. Rows
// already present are skipped so a reused run directory does not replay
// old epochs; their header still names the columns of appended rows.
func followResults(path string, log logging.Logger) (*resultsFollower, error) {
	var (
		location *tail.SeekInfo
		header   []string
	)
	if info, err := os.Stat(path); err == nil {
		location = &tail.SeekInfo{Offset: info.Size(), Whence: io.SeekStart}
		if header, err = readHeader(path); err != nil {
			log.Debugf("Unreadable results header in %s: %v", path, err)
		}
	}
	t, err := tail.TailFile(path, tail.Config{
		Location:  location,
		ReOpen:    true,
		MustExist: false,
		Follow:    true,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, err
	}

	f := &resultsFollower{path: path, tail: t, log: log, done: make(chan struct{})}
	go func() {
		defer close(f.done)
		for line := range t.Lines {
			if line.Err != nil {
				log.Debugf("Reading %s: %v", path, line.Err)
				continue
			}
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			if strings.HasPrefix(text, columnEpoch) {
				parsed, err := parseRecord(text)
				if err != nil {
					log.Debugf("Unreadable results header: %v", err)
					continue
				}
				header = parsed
				continue
			}
			if header == nil {
				continue
			}
			m, err := ParseEpoch(header, text)
			if err != nil {
				log.Debugf("Unreadable results row: %v", err)
				continue
			}
			log.WithField("epoch", m.Epoch).Infof("box_loss=%.4f precision=%.4f recall=%.4f mAP50=%.4f mAP50-95=%.4f",
				m.BoxLoss, m.Precision, m.Recall, m.MAP50, m.MAP5095)
		}
	}()
	return f, nil
}

// readHeader returns the column names on the first line of path.
func readHeader(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	first, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(first), columnEpoch) {
		return nil, errors.New("no epoch column")
	}
	return parseRecord(first)
}

// Stop reads whatever the trainer wrote last, ends following and waits
// for the reader goroutine.
func (f *resultsFollower) Stop() {
	f.drain()
	if err := f.tail.Stop(); err != nil {
		f.log.Debugf("Stopped following results: %v", err)
	}
	f.tail.Cleanup()
	<-f.done
}

// drain waits, up to drainTimeout, for the reader to reach the end of
// the file.
func (f *resultsFollower) drain() {
	info, err := os.Stat(f.path)
	if err != nil {
		return
	}
	deadline := time.Now().Add(drainTimeout)
	for time.Now().Before(deadline) {
		if offset, err := f.tail.Tell(); err == nil && offset >= info.Size() {
			return
		}
		time.Sleep(drainInterval)
	}
}
