// Package bot serves identifier checks over the Telegram Bot API using
// long polling.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultPollTimeout      = 30 * time.Second
	DefaultWorkers          = 4
	DefaultMaxRetryInterval = time.Minute

	// SendRetries bounds the retries of one reply.
	SendRetries = 5
)

// API is the subset of the Bot API the poller uses.
type API interface {
	GetMe(ctx context.Context) (*User, error)
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Options tunes polling and the worker pool. Zero fields take the defaults.
type Options struct {
	PollTimeout      time.Duration
	Workers          int
	MaxRetryInterval time.Duration
}

// Bot polls for updates and answers them with a pool of workers.
// Updates from one chat always go to the same worker, so replies keep the
// order of the messages.
type Bot struct {
	api    API
	router *Router
	opts   Options
}

// New returns a bot answering through api.
func New(api API, router *Router, opts Options) *Bot {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxRetryInterval <= 0 {
		opts.MaxRetryInterval = DefaultMaxRetryInterval
	}
	return &Bot{api: api, router: router, opts: opts}
}

// Identify calls getMe and teaches the router the bot's username.
func (b *Bot) Identify(ctx context.Context) (*User, error) {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	b.router.Username = me.Username
	return me, nil
}

// Run polls until ctx is cancelled or a permanent API error occurs.
// Cancellation is a clean stop and returns nil.
func (b *Bot) Run(ctx context.Context) error {
	queues := make([]chan Update, b.opts.Workers)
	for i := range queues {
		queues[i] = make(chan Update, 16)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, queue := range queues {
		g.Go(func() error {
			for update := range queue {
				b.handle(gctx, update)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer func() {
			for _, queue := range queues {
				close(queue)
			}
		}()
		return b.poll(gctx, queues)
	})

	err := g.Wait()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (b *Bot) poll(ctx context.Context, queues []chan Update) error {
	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.fetch(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			queue := queues[shard(update, len(queues))]
			select {
			case queue <- update:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// fetch retries getUpdates with exponential backoff until it succeeds,
// the error is permanent or ctx ends.
func (b *Bot) fetch(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	call := func() error {
		var err error
		updates, err = b.api.GetUpdates(ctx, offset, b.opts.PollTimeout)
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.RecordBotPollError()
		if logger := observability.Logger(); logger != nil {
			logger.Warn("Polling Telegram failed, retrying",
				zap.Error(err),
				zap.Duration("retry_in", wait))
		}
	}

	if err := b.retry(ctx, 0, call, notify); err != nil {
		return nil, err
	}
	return updates, nil
}

// send delivers a reply, retrying transient failures up to SendRetries
// times. A 429 waits for the retry_after Telegram asks for.
func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	call := func() error {
		return b.api.SendMessage(ctx, chatID, text)
	}

	notify := func(err error, wait time.Duration) {
		if logger := observability.Logger(); logger != nil {
			logger.Warn("Sending reply failed, retrying",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
				zap.Duration("retry_in", wait))
		}
	}

	return b.retry(ctx, SendRetries, call, notify)
}

// retry runs call with exponential backoff. maxRetries of zero retries
// until success. Permanent API errors and ctx cancellation stop at once; a
// RetryAfter hint is waited out before the next attempt.
func (b *Bot) retry(ctx context.Context, maxRetries uint64, call func() error, notify backoff.Notify) error {
	operation := func() error {
		err := call()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if apiErr.Permanent() {
				return backoff.Permanent(err)
			}
			if apiErr.RetryAfter > 0 {
				if waitErr := sleep(ctx, apiErr.RetryAfter); waitErr != nil {
					return backoff.Permanent(waitErr)
				}
			}
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = b.opts.MaxRetryInterval
	policy.MaxElapsedTime = 0

	var strategy backoff.BackOff = policy
	if maxRetries > 0 {
		strategy = backoff.WithMaxRetries(policy, maxRetries)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify)
}

func (b *Bot) handle(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		metrics.RecordBotUpdate(KindIgnored)
		return
	}

	reply := b.router.Route(msg.Text)
	metrics.RecordBotUpdate(reply.Kind)
	if reply.Text == "" {
		return
	}

	err := b.send(ctx, msg.Chat.ID, reply.Text)
	metrics.RecordBotReply(err == nil)

	logger := observability.Logger()
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("Failed to send reply",
			zap.Int64("update_id", update.UpdateID),
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err))
		return
	}
	logger.Debug("Answered update",
		zap.Int64("update_id", update.UpdateID),
		zap.String("kind", reply.Kind))
}

func shard(update Update, n int) int {
	if update.Message == nil || n <= 1 {
		return 0
	}
	return int(uint64(update.Message.Chat.ID) % uint64(n))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
