// Package watch re-renders ticket listings when the store changes on disk.
package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"tableflip.dev/helpdesk/pkg/app"
	"tableflip.dev/helpdesk/pkg/printers"
	"tableflip.dev/helpdesk/pkg/store"
)

// Watch prints the tickets matching Filter, then prints them again every
// time another process rewrites the store, until ctx is cancelled.
type Watch struct {
	Filter app.Filter

	Helpdesk    *app.Service
	Persistence store.Persistence
	Logger      *slog.Logger
	Out         io.Writer
	JSON        bool
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Helpdesk == nil || n.Persistence == nil {
		return errors.New("can not watch, no helpdesk")
	}
	log := n.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, err := n.Persistence.Watch(ctx)
	if err != nil {
		return err
	}

	if err := n.render(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			log.Debug("store changed", "type", ev.Type, "key", ev.Key)
			if err := n.Helpdesk.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if err := n.render(ctx); err != nil {
				return err
			}
		}
	}
}

func (n *Watch) render(ctx context.Context) error {
	tickets, err := n.Helpdesk.Tickets(ctx, n.Filter)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, tickets)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.TitleWithCount("Tickets", len(tickets))
	pp.Tickets(tickets...)
	return nil
}
