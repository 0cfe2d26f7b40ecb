package desktop

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

const (
	cmdClear   = "/temizle"
	cmdClearEn = "/clear"
	cmdQuit    = "/cikis"
	cmdQuitEn  = "/quit"
)

type event interface{}

type inputEvent struct {
	text string
}

type sessionEvent struct {
	session *Session
	err     error
}

type replyEvent struct {
	result *SendResult
	err    error
	// aborted means the send never happened; the cause was already shown
	aborted bool
}

type quitEvent struct{}

// App is the terminal chat client. Only the loop goroutine touches its
// state; workers and the input reader talk to it through the event queue.
type App struct {
	cfg      *Config
	api      ChatAPI
	renderer *Renderer
	now      func() time.Time

	events chan event
	pool   *WorkerPool

	sessionID  string
	creating   bool
	busy       bool
	transcript []Line
	// conversation held on the client side, cleared with /temizle
	buffer []Message
}

func NewApp(cfg *Config, api ChatAPI, out io.Writer) *App {
	return &App{
		cfg:      cfg,
		api:      api,
		renderer: NewRenderer(out, cfg.ColorDisabled()),
		now:      time.Now,
		events:   make(chan event, 16),
	}
}

// Run drives the UI loop until the user quits, input ends or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.pool = NewWorkerPool(ctx, a.cfg.Workers)
	defer a.pool.Wait()

	go a.readInput(ctx, in)

	a.system("TürkGPT masaüstü istemcisi. Çıkmak için /cikis, temizlemek için /temizle yazın.")
	a.startSession(ctx)

	for {
		select {
		case <-ctx.Done():
			a.pool.Cancel()
			return ctx.Err()
		case ev := <-a.events:
			if !a.handle(ctx, ev) {
				a.pool.Cancel()
				return nil
			}
		}
	}
}

// handle applies one event and reports whether the loop should go on.
func (a *App) handle(ctx context.Context, ev event) bool {
	switch e := ev.(type) {
	case inputEvent:
		return a.onInput(ctx, e.text)

	case sessionEvent:
		a.creating = false
		if e.err != nil {
			a.appendLine(LineError, "Oturum oluşturulamadı: "+e.err.Error())
			return true
		}
		a.sessionID = e.session.ID
		a.system("Oturum hazır: " + e.session.Title)

	case replyEvent:
		a.busy = false
		if e.aborted {
			return true
		}
		if e.err != nil {
			a.appendLine(LineError, "Hata: "+e.err.Error())
			return true
		}
		if e.result == nil || e.result.AssistantMessage == nil {
			a.appendLine(LineError, "Hata: boş yanıt")
			return true
		}
		if e.result.UserMessage != nil {
			a.buffer = append(a.buffer, *e.result.UserMessage)
		}
		reply := *e.result.AssistantMessage
		a.buffer = append(a.buffer, reply)
		a.addLine(Line{Kind: LineAssistant, At: a.stamp(reply.Timestamp), Text: reply.Content})

	case quitEvent:
		return false
	}
	return true
}

func (a *App) onInput(ctx context.Context, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return true
	}

	switch strings.ToLower(text) {
	case cmdQuit, cmdQuitEn:
		return false
	case cmdClear, cmdClearEn:
		a.transcript = nil
		a.buffer = nil
		a.renderer.Clear()
		a.system("Sohbet temizlendi.")
		return true
	}

	if a.busy {
		a.system("Önceki mesajın yanıtı bekleniyor.")
		return true
	}
	if a.sessionID == "" && a.creating {
		a.system("Oturum hazırlanıyor, lütfen bekleyin.")
		return true
	}

	a.appendLine(LineUser, text)
	a.busy = true

	// a failed startup creation is retried with the first send
	sessionID := a.sessionID
	needSession := sessionID == ""
	if needSession {
		a.creating = true
	}

	ok := a.pool.Submit(func(ctx context.Context) {
		if needSession {
			session, err := a.api.CreateSession(ctx, a.cfg.SessionTitle)
			a.post(ctx, sessionEvent{session: session, err: err})
			if err != nil {
				a.post(ctx, replyEvent{aborted: true})
				return
			}
			sessionID = session.ID
		}
		result, err := a.api.SendMessage(ctx, sessionID, text)
		a.post(ctx, replyEvent{result: result, err: err})
	})
	if !ok {
		a.busy = false
		if needSession {
			a.creating = false
		}
		a.appendLine(LineError, "Mesaj gönderilemedi: istemci kapanıyor")
	}
	return true
}

func (a *App) startSession(ctx context.Context) {
	a.creating = true
	ok := a.pool.Submit(func(ctx context.Context) {
		session, err := a.api.CreateSession(ctx, a.cfg.SessionTitle)
		a.post(ctx, sessionEvent{session: session, err: err})
	})
	if !ok {
		a.creating = false
	}
}

func (a *App) readInput(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !a.post(ctx, inputEvent{text: scanner.Text()}) {
			return
		}
	}
	a.post(ctx, quitEvent{})
}

// post queues ev for the loop. It gives up once ctx is done so workers
// never block on a loop that has exited.
func (a *App) post(ctx context.Context, ev event) bool {
	select {
	case a.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *App) system(text string) {
	a.appendLine(LineSystem, text)
}

func (a *App) appendLine(kind LineKind, text string) {
	a.addLine(Line{Kind: kind, At: a.now(), Text: text})
}

func (a *App) addLine(line Line) {
	a.transcript = append(a.transcript, line)
	a.renderer.Render(line)
}

func (a *App) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return a.now()
	}
	return t.Local()
}

// Transcript returns a copy of the displayed lines.
func (a *App) Transcript() []Line {
	out := make([]Line, len(a.transcript))
	copy(out, a.transcript)
	return out
}
