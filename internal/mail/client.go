// Package mail fetches unread messages over IMAP.
package mail

import (
	"context"
	"fmt"
	"net"
	"slices"
	"strconv"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/model"
)

// Client reads an IMAP mailbox without changing message state. Each call
// opens its own session and logs out before returning.
type Client struct {
	cfg    model.MailConfig
	logger *zap.Logger
}

// NewClient creates a client for the given account.
func NewClient(cfg model.MailConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = model.DefaultMailbox
	}
	return &Client{cfg: cfg, logger: logger}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.cfg.IMAPHost, strconv.Itoa(c.cfg.IMAPPort))
}

// withSession connects, authenticates, runs fn, and always logs out.
// Cancelling ctx closes the connection, which aborts any pending command.
func (c *Client) withSession(
	ctx context.Context,
	fn func(*imapclient.Client) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := c.addr()

	var client *imapclient.Client
	var err error
	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	if err := client.Login(c.cfg.Address, c.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		c.logger.Error("imap login failed",
			zap.String("address", c.cfg.Address),
			zap.Error(err),
		)
		return &AuthError{Address: c.cfg.Address, Err: err}
	}

	c.logger.Info("connected to mailbox", zap.String("address", c.cfg.Address))

	defer func() {
		if err := client.Logout().Wait(); err != nil {
			c.logger.Warn("error during logout", zap.Error(err))
		}
		_ = client.Close()
	}()

	return fn(client)
}

// FetchUnread returns up to limit unseen messages, newest first. Messages
// are fetched with peek so they stay unread. A message that cannot be
// parsed is skipped. A limit of zero or less means no limit.
func (c *Client) FetchUnread(ctx context.Context, limit int) ([]*model.Email, error) {
	var emails []*model.Email

	err := c.withSession(ctx, func(client *imapclient.Client) error {
		if _, err := client.Select(c.cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
			return fmt.Errorf("selecting %s: %w", c.cfg.Mailbox, err)
		}

		uids, err := c.searchUnseen(client)
		if err != nil {
			return err
		}
		uids = newest(uids, limit)
		if len(uids) == 0 {
			return nil
		}

		bodySection := &imap.FetchItemBodySection{Peek: true}
		fetchCmd := client.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
			Envelope:    true,
			UID:         true,
			BodySection: []*imap.FetchItemBodySection{bodySection},
		})
		defer fetchCmd.Close()

		byUID := make(map[imap.UID]*model.Email, len(uids))
		for {
			msg := fetchCmd.Next()
			if msg == nil {
				break
			}

			buf, err := msg.Collect()
			if err != nil {
				c.logger.Warn("skipping unreadable message", zap.Error(err))
				continue
			}

			byUID[buf.UID] = toEmail(buf.UID, buf.Envelope, buf.FindBodySection(bodySection))
		}

		if err := fetchCmd.Close(); err != nil {
			return fmt.Errorf("fetching messages: %w", err)
		}

		for _, uid := range uids {
			if e, ok := byUID[uid]; ok {
				emails = append(emails, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched unread emails", zap.Int("count", len(emails)))

	return emails, nil
}

// UnreadCount returns the number of unseen messages in the mailbox.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var count int

	err := c.withSession(ctx, func(client *imapclient.Client) error {
		data, err := client.Status(c.cfg.Mailbox, &imap.StatusOptions{NumUnseen: true}).Wait()
		if err != nil {
			return fmt.Errorf("reading status of %s: %w", c.cfg.Mailbox, err)
		}
		if data.NumUnseen != nil {
			count = int(*data.NumUnseen)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (c *Client) searchUnseen(client *imapclient.Client) ([]imap.UID, error) {
	data, err := client.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}
	return data.AllUIDs(), nil
}

// newest orders uids from highest to lowest and keeps at most limit.
func newest(uids []imap.UID, limit int) []imap.UID {
	out := slices.Clone(uids)
	slices.SortFunc(out, func(a, b imap.UID) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
