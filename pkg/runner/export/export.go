// Package export writes tickets out as CSV.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
)

type Export struct {
	Filter app.Filter
	// File receives the CSV; empty writes to Out.
	File string

	Helpdesk *app.Service
	Out      io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Helpdesk == nil {
		return errors.New("can not export, no helpdesk")
	}
	if n.File == "" {
		w := n.Out
		if w == nil {
			w = os.Stdout
		}
		return n.Helpdesk.ExportCSV(ctx, w, n.Filter)
	}

	tmp, err := os.CreateTemp(filepath.Dir(n.File), ".helpdesk-export-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := n.Helpdesk.ExportCSV(ctx, tmp, n.Filter); err != nil {
		_ = tmp.Close()
		return err
	}
	// CreateTemp makes the file owner only.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), n.File); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Notice(printers.NoticeSuccess, fmt.Sprintf("Exported to %s.", n.File))
	return nil
}
