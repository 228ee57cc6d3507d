// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4"
)

// SnapshotVersion is the snapshot format version written
const SnapshotVersion = 1

// Compressed snapshots are recognised by this suffix
const lz4Suffix = ".lz4"

// Snapshot is a report with enough context to be collected
// from many machines and compared later.
type Snapshot struct {
	RunID       string `json:"run_id"`
	Version     int64  `json:"version"`
	Author      string `json:"author"`
	Host        string `json:"host"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	DateCreated int64  `json:"date_created"`

	Report Report `json:"report"`
}

// NewSnapshot wraps rep with details of this run and machine
func NewSnapshot(rep Report) Snapshot {
	author := "unknown"
	if u, err := user.Current(); err == nil {
		author = u.Username
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	return Snapshot{
		RunID:       uuid.New().String(),
		Version:     SnapshotVersion,
		Author:      author,
		Host:        host,
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		DateCreated: time.Now().Unix(),
		Report:      rep,
	}
}

// WriteSnapshot writes snap to path as JSON, lz4 compressed
// when path ends in .lz4
func WriteSnapshot(path string, snap Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.WriteSnapshot(): %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report.WriteSnapshot(): %w", cerr)
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(path, lz4Suffix) {
		zw := lz4.NewWriter(f)
		defer func() {
			if cerr := zw.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("report.WriteSnapshot(): %w", cerr)
			}
		}()
		w = zw
	}

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("report.WriteSnapshot(): %w", err)
	}
	return nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot
func ReadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("report.ReadSnapshot(): %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, lz4Suffix) {
		r = lz4.NewReader(f)
	}
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return snap, fmt.Errorf("report.ReadSnapshot(): %w", err)
	}
	if snap.Version != SnapshotVersion {
		return snap, fmt.Errorf("report.ReadSnapshot(): unsupported version %d", snap.Version)
	}
	return snap, nil
}
