package bot

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID int64
	text   string
}

// fakeAPI serves scripted getUpdates batches and records replies.
type fakeAPI struct {
	mu      sync.Mutex
	batches [][]Update
	errs    []error
	offsets []int64
	// sendErrs are returned by successive SendMessage calls before any
	// call succeeds.
	sendErrs  []error
	sendCalls int
	sent      []sentMessage
	done      chan struct{}
	want      int
}

func newFakeAPI(want int, batches ...[]Update) *fakeAPI {
	return &fakeAPI{batches: batches, done: make(chan struct{}), want: want}
}

func (f *fakeAPI) GetMe(ctx context.Context) (*User, error) {
	return &User{ID: 1, IsBot: true, Username: "jid_bot"}, nil
}

func (f *fakeAPI) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		f.mu.Unlock()
		return nil, err
	}
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return batch, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if len(f.sendErrs) > 0 {
		err := f.sendErrs[0]
		f.sendErrs = f.sendErrs[1:]
		return err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	if len(f.sent) == f.want {
		close(f.done)
	}
	return nil
}

func textUpdate(id, chatID int64, text string) Update {
	return Update{UpdateID: id, Message: &Message{MessageID: id, Chat: Chat{ID: chatID}, Text: text}}
}

func runUntilDone(t *testing.T, b *Bot, api *fakeAPI) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx) }()

	select {
	case <-api.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for replies")
	}
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop after cancel")
	}
}

func TestBot_AnswersUpdatesAndAdvancesOffset(t *testing.T) {
	api := newFakeAPI(3,
		[]Update{textUpdate(10, 1, "/start"), textUpdate(11, 2, "usеr@jabber.ru")},
		[]Update{{UpdateID: 12}, textUpdate(13, 1, "user@jabber.ru")},
	)
	b := New(api, NewRouter(nil, 500), Options{Workers: 2})

	me, err := b.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jid_bot", me.Username)

	runUntilDone(t, b, api)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.sent, 3)
	require.GreaterOrEqual(t, len(api.offsets), 2)
	assert.Equal(t, []int64{0, 12}, api.offsets[:2])

	byChat := map[int64][]string{}
	for _, msg := range api.sent {
		byChat[msg.chatID] = append(byChat[msg.chatID], msg.text)
	}
	require.Len(t, byChat[1], 2)
	assert.Contains(t, byChat[1][0], "Jabber Fake Checker", "replies in one chat keep message order")
	assert.Contains(t, byChat[1][1], "Jabber чистый")
	assert.Contains(t, byChat[2][0], "<u><b>е</b></u>")
}

func TestBot_RetriesTransientErrors(t *testing.T) {
	api := newFakeAPI(1, []Update{textUpdate(1, 7, "user")})
	api.errs = []error{errors.New("connection reset"), &APIError{Method: "getUpdates", Code: 502}}
	b := New(api, NewRouter(nil, 500), Options{MaxRetryInterval: 10 * time.Millisecond})

	runUntilDone(t, b, api)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.GreaterOrEqual(t, len(api.offsets), 3)
	assert.Len(t, api.sent, 1)
}

func TestBot_RetriesRateLimitedReply(t *testing.T) {
	api := newFakeAPI(1, []Update{textUpdate(1, 7, "usеr@jabber.ru")})
	api.sendErrs = []error{&APIError{Method: "sendMessage", Code: http.StatusTooManyRequests, RetryAfter: 20 * time.Millisecond}}
	b := New(api, NewRouter(nil, 500), Options{MaxRetryInterval: 10 * time.Millisecond})

	start := time.Now()
	runUntilDone(t, b, api)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 2, api.sendCalls)
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(7), api.sent[0].chatID)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond, "retry_after is waited out")
}

func TestBot_DropsReplyOnPermanentSendError(t *testing.T) {
	api := newFakeAPI(1,
		[]Update{textUpdate(1, 7, "user@jabber.ru")},
		[]Update{textUpdate(2, 7, "user@jabber.ru")},
	)
	api.sendErrs = []error{&APIError{Method: "sendMessage", Code: http.StatusForbidden, Description: "bot was blocked by the user"}}
	b := New(api, NewRouter(nil, 500), Options{Workers: 1, MaxRetryInterval: 10 * time.Millisecond})

	runUntilDone(t, b, api)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 2, api.sendCalls, "a refused reply is not retried")
	require.Len(t, api.sent, 1)
}

func TestBot_StopsOnPermanentError(t *testing.T) {
	api := newFakeAPI(0)
	api.errs = []error{&APIError{Method: "getUpdates", Code: http.StatusUnauthorized, Description: "Unauthorized"}}
	b := New(api, NewRouter(nil, 500), Options{})

	err := b.Run(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
}

func TestNewAppliesDefaults(t *testing.T) {
	b := New(newFakeAPI(0), NewRouter(nil, 500), Options{})
	assert.Equal(t, DefaultPollTimeout, b.opts.PollTimeout)
	assert.Equal(t, DefaultWorkers, b.opts.Workers)
	assert.Equal(t, DefaultMaxRetryInterval, b.opts.MaxRetryInterval)
}

func TestShard(t *testing.T) {
	assert.Equal(t, 0, shard(Update{}, 4))
	assert.Equal(t, shard(textUpdate(1, -100, "a"), 4), shard(textUpdate(2, -100, "b"), 4))
	assert.Less(t, shard(textUpdate(1, -101, "a"), 4), 4)
}
