package wix

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dosanma1/msiforge/pkg/xos"
)

// ReportFile is the report's name inside the output directory.
const ReportFile = "build-report.json"

// Stage status values recorded in the build report.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// StageResult is one stage's entry in the build report.
type StageResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Report summarizes one pipeline run. It is written next to the artifact so
// build machinery can archive what happened without scraping logs.
type Report struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Stages    []StageResult `json:"stages"`
	Artifact  string        `json:"artifact,omitempty"`
	SHA256    string        `json:"sha256,omitempty"`
	Signed    bool          `json:"signed"`
	Failure   string        `json:"failure,omitempty"`
}

func newReport() *Report {
	return &Report{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

func (r *Report) record(stage, status string, d time.Duration, err error) {
	sr := StageResult{Name: stage, Status: status, Duration: d}
	if err != nil {
		sr.Error = err.Error()
		r.Failure = sr.Error
	}
	r.Stages = append(r.Stages, sr)
}

// finish seals the report with totals and artifact facts.
func (r *Report) finish(a *Artifact) {
	r.Duration = time.Since(r.StartedAt)
	if a == nil {
		return
	}
	r.Artifact = a.Path
	r.Signed = a.Signed
	if sum, err := fileSHA256(a.Path); err == nil {
		r.SHA256 = sum
	}
}

func (r *Report) write(dir string) error {
	if err := xos.CreateDir(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return xos.WriteFile(filepath.Join(dir, ReportFile), data, 0644)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
