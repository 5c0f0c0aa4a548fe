package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/helpdesk/pkg/account"
	"tableflip.dev/helpdesk/pkg/ticket"
)

// Keys of the blobs kept in the store. Each blob holds a JSON snapshot of a
// whole collection and is rewritten wholesale on every change.
const (
	KeyTickets = "tickets"
	KeyClients = "clients"
	KeyAgents  = "agents"
	KeySession = "session"

	blobExt = ".json"
	tempDir = ".tmp"
)

// ErrCorrupt marks a blob that exists but can not be decoded. Collections
// are never rewritten over a corrupt blob.
var ErrCorrupt = errors.New("store: corrupt blob")

// Persistence defines the persistence contract for helpdesk collections.
type Persistence interface {
	Tickets(ctx context.Context) ([]*ticket.Ticket, error)
	StoreTickets(tickets []*ticket.Ticket) error
	Clients(ctx context.Context) ([]*account.Client, error)
	StoreClients(clients []*account.Client) error
	// Agents returns the stored agents and whether the agents blob exists.
	Agents(ctx context.Context) ([]*account.Agent, bool, error)
	StoreAgents(agents []*account.Agent) error
	// Session returns the current session or nil when nobody is logged in.
	Session(ctx context.Context) (*account.Session, error)
	StoreSession(s *account.Session) error
	ClearSession() error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, fmt.Errorf("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	// No read cache: another process may rewrite a blob at any time and
	// reads must observe it.
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
	}), basePath: basePath, log: NewLogger(cfg)}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	log      *slog.Logger
}

// readBlob decodes the blob at key into v. It reports false when the key
// has never been written. A blob that does not decode is an ErrCorrupt
// error, never a missing one.
func (p *persistence) readBlob(ctx context.Context, key string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !p.d.Has(key) {
		return false, nil
	}
	val, err := p.d.Read(key)
	if err != nil {
		return false, fmt.Errorf("store: read %s: %w", key, err)
	}
	if len(val) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(val, v); err != nil {
		return false, fmt.Errorf("%w %s%s: %w", ErrCorrupt, key, blobExt, err)
	}
	return true, nil
}

func (p *persistence) writeBlob(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	p.log.Debug("blob written", "key", key, "bytes", len(data))
	return nil
}

func (p *persistence) Tickets(ctx context.Context) ([]*ticket.Ticket, error) {
	var tickets []*ticket.Ticket
	if _, err := p.readBlob(ctx, KeyTickets, &tickets); err != nil {
		return nil, err
	}
	return compact(tickets), nil
}

func (p *persistence) StoreTickets(tickets []*ticket.Ticket) error {
	if tickets == nil {
		tickets = []*ticket.Ticket{}
	}
	return p.writeBlob(KeyTickets, tickets)
}

func (p *persistence) Clients(ctx context.Context) ([]*account.Client, error) {
	var clients []*account.Client
	if _, err := p.readBlob(ctx, KeyClients, &clients); err != nil {
		return nil, err
	}
	return compact(clients), nil
}

func (p *persistence) StoreClients(clients []*account.Client) error {
	if clients == nil {
		clients = []*account.Client{}
	}
	return p.writeBlob(KeyClients, clients)
}

func (p *persistence) Agents(ctx context.Context) ([]*account.Agent, bool, error) {
	var agents []*account.Agent
	found, err := p.readBlob(ctx, KeyAgents, &agents)
	if err != nil {
		return nil, false, err
	}
	return compact(agents), found, nil
}

func (p *persistence) StoreAgents(agents []*account.Agent) error {
	if agents == nil {
		agents = []*account.Agent{}
	}
	return p.writeBlob(KeyAgents, agents)
}

func (p *persistence) Session(ctx context.Context) (*account.Session, error) {
	var s account.Session
	found, err := p.readBlob(ctx, KeySession, &s)
	if errors.Is(err, ErrCorrupt) {
		// Losing a session only logs the user out.
		p.log.Warn("ignoring unreadable session", "error", err)
		return nil, nil
	}
	if err != nil || !found {
		return nil, err
	}
	if s.Client == nil && s.Agent == nil {
		return nil, nil
	}
	return &s, nil
}

func (p *persistence) StoreSession(s *account.Session) error {
	if s == nil {
		return p.ClearSession()
	}
	return p.writeBlob(KeySession, s)
}

func (p *persistence) ClearSession() error {
	if !p.d.Has(KeySession) {
		return nil
	}
	if err := p.d.Erase(KeySession); err != nil {
		return fmt.Errorf("store: erase %s: %w", KeySession, err)
	}
	return nil
}

// compact drops null elements a hand-edited blob may contain.
func compact[T any](in []*T) []*T {
	out := in[:0]
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: key + blobExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, blobExt)
}

// keyForPath maps a file inside the base directory back to its blob key.
func keyForPath(name string) string {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, blobExt) {
		return ""
	}
	return strings.TrimSuffix(base, blobExt)
}
