package notifier

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dtroode/account-server/internal/logger"
	"github.com/dtroode/account-server/internal/model"
)

var _ model.Notifier = (*SMTP)(nil)

// SMTPConfig holds relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTP sends mail through a relay, upgrading to TLS when offered.
type SMTP struct {
	cfg    SMTPConfig
	now    func() time.Time
	logger *logger.Logger
}

func NewSMTP(cfg SMTPConfig, logger *logger.Logger) *SMTP {
	return &SMTP{
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// Send delivers one message. The whole exchange is bounded by the
// configured timeout and by ctx.
func (s *SMTP) Send(ctx context.Context, address, subject, body string) error {
	msg, err := NewMessage(s.cfg.From, address, subject, body, s.now())
	if err != nil {
		return err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg.msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)), err)
	}

	s.logger.Debug("SMTP notifier: message sent",
		"message_id", msg.ID)

	return nil
}

// client builds a single-use relay client. Every connection it opens
// carries the deadline of sendCtx so a silent relay cannot stall Send.
func (s *SMTP) client(sendCtx context.Context) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			if deadline, ok := sendCtx.Deadline(); ok {
				_ = conn.SetDeadline(deadline)
			}
			return conn, nil
		}),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure smtp client: %w", err)
	}
	return client, nil
}
