package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"echoverse/internal/models"
)

// State is the lifecycle of one voice session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateActive     State = "active"
	StateError      State = "error"
)

const (
	micDeniedMessage     = "Microphone access denied. Please enable microphone permissions in your settings."
	connectFailedMessage = "A connection error occurred. Please try again."
)

// Microphone provides capture frames: CaptureFrameSize float samples, mono,
// at InputSampleRate. Acquire fails when the user denies access. Stop must
// be safe to call at any time, including before a successful Acquire.
type Microphone interface {
	Acquire(ctx context.Context) (<-chan []float32, error)
	Stop()
}

// Config wires a Session. Everything is injected; the session owns no
// globals.
type Config struct {
	Microphone  Microphone
	Dialer      Dialer
	Sink        PlaybackSink
	UpstreamURL string
	// Token is the short-lived scoped credential for the upstream service.
	Token string
	Log   *zap.Logger
}

// Session is one continuous realtime voice interaction: full-duplex audio
// with running transcript assembly. Lifecycle is
// idle -> connecting -> active -> idle, with error terminal for the session.
// Every exit path releases the microphone, the connection and any scheduled
// playback.
type Session struct {
	ID uuid.UUID

	cfg        Config
	transcript *Transcript
	playback   *playbackScheduler
	nowFn      func() time.Time

	mu        sync.Mutex
	state     State
	errMsg    string
	transport Transport
	cancel    context.CancelFunc
	epoch     time.Time
}

func NewSession(cfg Config) *Session {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	s := &Session{
		ID:         uuid.New(),
		cfg:        cfg,
		transcript: &Transcript{},
		nowFn:      time.Now,
		state:      StateIdle,
	}
	s.playback = newPlaybackScheduler(cfg.Sink, s.sessionClock)
	return s
}

// sessionClock is zero at Start; playback positions are relative to it.
func (s *Session) sessionClock() time.Duration {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()
	if epoch.IsZero() {
		return 0
	}
	return s.nowFn().Sub(epoch)
}

// Start acquires the microphone, opens the streaming connection and runs the
// duplex pipeline. Microphone denial and connection failure both land the
// session in the error state with a user-facing message; the returned error
// carries the cause.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return errors.New("live: session already started")
	}
	s.state = StateConnecting
	s.epoch = s.nowFn()
	s.mu.Unlock()

	frames, err := s.cfg.Microphone.Acquire(ctx)
	if err != nil {
		s.fail(micDeniedMessage)
		return err
	}

	transport, err := s.cfg.Dialer.Dial(ctx, s.cfg.UpstreamURL, s.cfg.Token)
	if err != nil {
		s.fail(connectFailedMessage)
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.state != StateConnecting {
		// Torn down while dialing.
		s.mu.Unlock()
		cancel()
		transport.Close()
		return errors.New("live: session ended during connect")
	}
	s.transport = transport
	s.cancel = cancel
	s.state = StateActive
	s.mu.Unlock()

	s.cfg.Log.Info("live session active", zap.String("session_id", s.ID.String()))
	go s.sendLoop(runCtx, frames)
	go s.recvLoop(runCtx)
	return nil
}

// End terminates the session normally and releases every resource. Safe to
// call in any state, repeatedly.
func (s *Session) End() {
	s.mu.Lock()
	if s.state == StateActive || s.state == StateConnecting {
		s.state = StateIdle
	}
	cancel, transport := s.detachLocked()
	s.mu.Unlock()
	s.release(cancel, transport)
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ErrMessage is the user-facing message for the error state.
func (s *Session) ErrMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Transcript returns a snapshot of the assembled conversation.
func (s *Session) Transcript() []models.ConversationTurn {
	return s.transcript.Turns()
}

func (s *Session) sendLoop(ctx context.Context, frames <-chan []float32) {
	for {
		select {
		case <-ctx.Done():
			return
		case samples, ok := <-frames:
			if !ok {
				return
			}
			transport := s.currentTransport()
			if transport == nil {
				return
			}
			if err := transport.Send(ctx, EncodeFrame(samples)); err != nil {
				if ctx.Err() == nil {
					s.cfg.Log.Warn("outbound frame failed", zap.Error(err))
					s.fail(connectFailedMessage)
				}
				return
			}
		}
	}
}

func (s *Session) recvLoop(ctx context.Context) {
	for {
		transport := s.currentTransport()
		if transport == nil {
			return
		}
		msg, err := transport.Receive(ctx)
		if err != nil {
			// A read error during teardown is just the closing connection.
			if ctx.Err() == nil {
				s.cfg.Log.Warn("live connection lost", zap.Error(err))
				s.fail(connectFailedMessage)
			}
			return
		}
		s.handleMessage(msg)
	}
}

func (s *Session) handleMessage(msg ServerMessage) {
	if msg.InputTranscription != nil {
		s.transcript.Append(models.SpeakerUser, msg.InputTranscription.Text)
	}
	if msg.OutputTranscription != nil {
		s.transcript.Append(models.SpeakerAssistant, msg.OutputTranscription.Text)
	}
	if msg.TurnComplete {
		s.transcript.FinalizeTurns()
	}
	if msg.Audio != "" {
		samples, err := DecodePCM(msg.Audio)
		if err != nil {
			s.cfg.Log.Warn("dropping undecodable audio payload", zap.Error(err))
			return
		}
		s.playback.schedule(samples, OutputSampleRate)
	}
}

func (s *Session) currentTransport() Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport
}

// fail moves the session to the terminal error state and tears it down.
// No-op once the session has already ended or failed.
func (s *Session) fail(message string) {
	s.mu.Lock()
	if s.state == StateIdle || s.state == StateError {
		s.mu.Unlock()
		return
	}
	s.state = StateError
	s.errMsg = message
	cancel, transport := s.detachLocked()
	s.mu.Unlock()
	s.release(cancel, transport)
	s.cfg.Log.Warn("live session failed", zap.String("session_id", s.ID.String()), zap.String("message", message))
}

func (s *Session) detachLocked() (context.CancelFunc, Transport) {
	cancel, transport := s.cancel, s.transport
	s.cancel, s.transport = nil, nil
	return cancel, transport
}

// release frees the connection, the microphone and all scheduled playback.
// Runs outside the session lock; every exit path goes through it and it is
// safe when nothing was ever opened.
func (s *Session) release(cancel context.CancelFunc, transport Transport) {
	if cancel != nil {
		cancel()
	}
	if transport != nil {
		_ = transport.Close()
	}
	s.cfg.Microphone.Stop()
	s.playback.stopAll()
}
