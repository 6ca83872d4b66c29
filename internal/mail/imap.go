// Package mail pulls bank alert emails from an IMAP inbox and turns them into
// transactions.
package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/Veraticus/financeai/internal/common"
	"github.com/cenkalti/backoff/v4"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// DefaultServer is the Gmail IMAP endpoint used when none is configured.
const DefaultServer = "imap.gmail.com:993"

// DefaultFetchLimit caps how many matching messages a single sync reads.
const DefaultFetchLimit = 100

// ErrLoginFailed is returned when the server rejects the address or app password.
var ErrLoginFailed = errors.New("mail login failed")

// subjectKeywords and senderKeywords select likely transaction alerts.
var (
	subjectKeywords = []string{"debited", "credited", "transaction", "payment", "purchase"}
	senderKeywords  = []string{"alerts", "bank"}
)

// Mailbox is an authenticated inbox session.
type Mailbox interface {
	// FetchRecent returns the raw RFC 822 bytes of up to limit matching
	// messages received since the given time, oldest first.
	FetchRecent(ctx context.Context, since time.Time, limit int) ([][]byte, error)
	Close() error
}

// Dialer opens mailbox sessions.
type Dialer interface {
	Dial(ctx context.Context, server, address, password string) (Mailbox, error)
}

// IMAPDialer connects over implicit TLS and retries connection failures with
// exponential backoff. Rejected credentials are not retried.
type IMAPDialer struct {
	logger     *slog.Logger
	newBackoff func() backoff.BackOff
}

// NewIMAPDialer creates a dialer that tries up to maxRetries extra times.
func NewIMAPDialer(maxRetries uint64, logger *slog.Logger) *IMAPDialer {
	if logger == nil {
		logger = slog.Default()
	}
	return &IMAPDialer{
		logger: logger,
		newBackoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(b, maxRetries)
		},
	}
}

// Dial logs in to server as address.
func (d *IMAPDialer) Dial(ctx context.Context, server, address, password string) (Mailbox, error) {
	if server == "" {
		server = DefaultServer
	}

	var c *client.Client
	operation := func() error {
		conn, err := client.DialTLS(server, nil)
		if err != nil {
			return fmt.Errorf("%w: dial %s: %v", common.ErrMailConnection, server, err)
		}

		if err := conn.Login(address, password); err != nil {
			_ = conn.Logout()
			return backoff.Permanent(fmt.Errorf("%w for %s: %v", ErrLoginFailed, address, err))
		}

		c = conn
		return nil
	}

	notify := func(err error, wait time.Duration) {
		d.logger.Warn("IMAP connection failed, retrying", "server", server, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(d.newBackoff(), ctx), notify); err != nil {
		return nil, err
	}

	return &imapMailbox{c: c}, nil
}

type imapMailbox struct {
	c *client.Client
}

func (m *imapMailbox) FetchRecent(ctx context.Context, since time.Time, limit int) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	if _, err := m.c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("failed to select inbox: %w", err)
	}

	uids, err := m.c.UidSearch(SearchCriteria(since))
	if err != nil {
		return nil, fmt.Errorf("failed to search inbox: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	uids = lastN(uids, limit)

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- m.c.UidFetch(seqset, []imap.FetchItem{imap.FetchUid, section.FetchItem()}, messages)
	}()

	type fetched struct {
		raw []byte
		uid uint32
	}
	var out []fetched
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			continue
		}
		out = append(out, fetched{uid: msg.Uid, raw: raw})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].uid < out[j].uid })
	raws := make([][]byte, len(out))
	for i, f := range out {
		raws[i] = f.raw
	}
	return raws, nil
}

func (m *imapMailbox) Close() error {
	return m.c.Logout()
}

// SearchCriteria matches messages since the given day whose subject or sender
// contains one of the alert keywords.
func SearchCriteria(since time.Time) *imap.SearchCriteria {
	var alternatives []*imap.SearchCriteria
	for _, kw := range subjectKeywords {
		c := imap.NewSearchCriteria()
		c.Header.Add("Subject", kw)
		alternatives = append(alternatives, c)
	}
	for _, kw := range senderKeywords {
		c := imap.NewSearchCriteria()
		c.Header.Add("From", kw)
		alternatives = append(alternatives, c)
	}

	criteria := anyOf(alternatives)
	if !since.IsZero() {
		criteria.Since = since
	}
	return criteria
}

// anyOf folds alternatives into the nested binary ORs IMAP requires.
func anyOf(alternatives []*imap.SearchCriteria) *imap.SearchCriteria {
	if len(alternatives) == 1 {
		return alternatives[0]
	}
	criteria := imap.NewSearchCriteria()
	criteria.Or = [][2]*imap.SearchCriteria{{alternatives[0], anyOf(alternatives[1:])}}
	return criteria
}

func lastN(uids []uint32, n int) []uint32 {
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	if len(uids) > n {
		return uids[len(uids)-n:]
	}
	return uids
}
