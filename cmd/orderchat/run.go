package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	"github.com/frelanci/orderchat/internal/config"
	"github.com/frelanci/orderchat/internal/conversation"
	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/media"
	"github.com/frelanci/orderchat/internal/payment"
	"github.com/frelanci/orderchat/internal/session"
)

// repl is the interactive conversation shell. One order conversation is open
// at a time; opening another closes the previous one, mirroring a single
// chat screen.
type repl struct {
	cfg       *config.Config
	logger    *slog.Logger
	sessions  *session.Store
	client    marketplace.Client
	confirmer *payment.Confirmer

	engine *conversation.Engine

	// outMu guards out and rendered; render runs on the poll goroutine
	// while the command loop writes from the main one.
	outMu    sync.Mutex
	rendered int
	out      *bufio.Writer
}

func newREPL(cfg *config.Config, logger *slog.Logger, sessions *session.Store, client marketplace.Client) *repl {
	return &repl{
		cfg:       cfg,
		logger:    logger,
		sessions:  sessions,
		client:    client,
		confirmer: payment.NewConfirmer(client, logger),
		out:       bufio.NewWriter(os.Stdout),
	}
}

func (r *repl) run(ctx context.Context) error {
	defer r.closeConversation()

	r.printf("orderchat connected to %s\n", r.cfg.APIBaseURL)
	if sess, err := r.sessions.Current(); err == nil {
		r.printf("signed in as %s (%s)\n", sess.User.Name, sess.User.UserType)
	} else {
		r.printf("no session; use: login <login> <password> or register <login> <password> <name> <client|freelancer>\n")
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		r.printf("> ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := r.dispatch(ctx, cmd, args, line); err != nil {
			if errors.Is(err, domainErrors.ErrUnauthorized) {
				r.printf("session expired; please login again\n")
				continue
			}
			r.printf("error: %v\n", err)
		}
	}
}

func (r *repl) dispatch(ctx context.Context, cmd string, args []string, line string) error {
	switch cmd {
	case "help":
		r.printHelp()
		return nil
	case "register":
		return r.register(ctx, args)
	case "login":
		return r.login(ctx, args)
	case "logout":
		r.closeConversation()
		return r.sessions.Clear()
	case "orders":
		return r.listOrders(ctx)
	case "order":
		return r.createOrder(ctx, args)
	case "open":
		return r.open(ctx, args)
	case "send":
		return r.send(ctx, line)
	case "attach":
		return r.attach(args)
	case "detach":
		return r.detach()
	case "confirm":
		return r.confirm(ctx)
	case "status":
		return r.updateStatus(ctx, args)
	case "delete":
		return r.deleteOrder(ctx)
	case "close":
		r.closeConversation()
		return nil
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
}

func (r *repl) register(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: register <login> <password> <name> <client|freelancer>")
	}
	sess, err := r.client.Register(ctx, marketplace.Credentials{
		Login:    args[0],
		Password: args[1],
		Name:     strings.Join(args[2:len(args)-1], " "),
		UserType: model.UserType(args[len(args)-1]),
	})
	if err != nil {
		return err
	}
	if err := r.sessions.Save(*sess); err != nil {
		return err
	}
	r.printf("registered and signed in as %s (%s)\n", sess.User.Name, sess.User.UserType)
	return nil
}

func (r *repl) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <login> <password>")
	}
	sess, err := r.client.Login(ctx, marketplace.Credentials{Login: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	if err := r.sessions.Save(*sess); err != nil {
		return err
	}
	r.printf("signed in as %s (%s)\n", sess.User.Name, sess.User.UserType)
	return nil
}

func (r *repl) listOrders(ctx context.Context) error {
	orders, err := r.client.MyOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		r.printf("no orders\n")
		return nil
	}
	for _, o := range orders {
		paid := ""
		if o.PaymentApproved {
			paid = " [paid]"
		}
		r.printf("%s  %-12s %8.2f  %s <-> %s  %q%s\n",
			o.ID, o.Status, o.Price, o.ClientName, o.FreelancerName, o.JobTitle, paid)
	}
	return nil
}

func (r *repl) createOrder(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: order <jobId> <freelancerId> <price> [requirements...]")
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", args[2])
	}
	order, err := r.client.CreateOrder(ctx, marketplace.CreateOrderRequest{
		JobID:        args[0],
		FreelancerID: args[1],
		Price:        price,
		Requirements: strings.Join(args[3:], " "),
	})
	if err != nil {
		return err
	}
	r.printf("order %s created\n", order.ID)
	return nil
}

func (r *repl) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <orderId>")
	}
	sess, err := r.sessions.Current()
	if err != nil {
		return err
	}

	r.closeConversation()

	engine := conversation.NewEngine(r.client, args[0], sess.User, r.cfg.PollInterval, r.logger)
	engine.OnUpdate(func(order *model.Order) { r.render(engine, order) })
	if err := engine.Load(ctx); err != nil {
		return err
	}
	engine.Start(ctx)
	r.engine = engine
	return nil
}

func (r *repl) send(ctx context.Context, line string) error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	text := strings.TrimSpace(strings.TrimPrefix(line, "send"))
	r.engine.SetDraftText(text)
	return r.engine.Send(ctx)
}

func (r *repl) attach(args []string) error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: attach <image|video> <path-or-uri>")
	}
	kind := model.MediaType(args[0])
	if !kind.Valid() {
		return domainErrors.ErrInvalidMedia
	}
	r.engine.AttachMedia(media.Attachment{URI: args[1], Type: kind})
	r.printf("attached %s %s\n", kind, args[1])
	return nil
}

func (r *repl) detach() error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	r.engine.DetachMedia()
	return nil
}

func (r *repl) confirm(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	if err := r.confirmer.Confirm(ctx, r.engine.Snapshot(), r.engine.Viewer()); err != nil {
		return err
	}
	// The flag flip and the system message arrive with the reload.
	return r.engine.Load(ctx)
}

func (r *repl) updateStatus(ctx context.Context, args []string) error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: status <pending|in_progress|delivered|completed|cancelled>")
	}
	if err := r.client.UpdateStatus(ctx, r.engine.OrderID(), model.OrderStatus(args[0])); err != nil {
		return err
	}
	return r.engine.Load(ctx)
}

func (r *repl) deleteOrder(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("no open conversation; use: open <orderId>")
	}
	if err := r.client.DeleteOrder(ctx, r.engine.OrderID()); err != nil {
		return err
	}
	r.printf("order removed from your list\n")
	r.closeConversation()
	return nil
}

func (r *repl) closeConversation() {
	if r.engine == nil {
		return
	}
	// Stop waits for the poll goroutine, so no render runs past this point.
	r.engine.Stop()
	r.engine = nil

	r.outMu.Lock()
	r.rendered = 0
	r.outMu.Unlock()
}

// render prints messages the previous snapshot did not carry. Snapshots are
// full replacements, so the tail past the rendered count is what is new.
func (r *repl) render(engine *conversation.Engine, order *model.Order) {
	if order == nil {
		return
	}

	r.outMu.Lock()
	defer r.outMu.Unlock()

	if r.rendered == 0 {
		paid := "payment pending"
		if order.PaymentApproved {
			paid = "payment approved"
		}
		fmt.Fprintf(r.out, "-- %s | %s | %.2f | %s | %s --\n",
			order.JobTitle, order.Status, order.Price, order.FreelancerName, paid)
	}
	if len(order.Messages) < r.rendered {
		r.rendered = 0
	}
	for _, msg := range order.Messages[r.rendered:] {
		r.printMessage(engine, msg)
	}
	r.rendered = len(order.Messages)
	r.out.Flush()
}

// printMessage runs under outMu.
func (r *repl) printMessage(engine *conversation.Engine, msg model.Message) {
	label := msg.SenderName
	switch engine.Classify(msg) {
	case conversation.ClassSystem:
		label = "***"
	case conversation.ClassOwn:
		label = "you"
	}
	line := msg.Body
	if msg.Media != nil {
		line = fmt.Sprintf("%s [%s attachment]", line, msg.Media.Type)
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", msg.CreatedAt.Local().Format("15:04"), label, line)
}

func (r *repl) printHelp() {
	r.printf(`commands:
  register <login> <password> <name> <client|freelancer>
  login <login> <password>
  logout
  orders
  order <jobId> <freelancerId> <price> [requirements...]
  open <orderId>
  send <text>
  attach <image|video> <path-or-uri>
  detach
  confirm
  status <pending|in_progress|delivered|completed|cancelled>
  delete
  close
  quit
`)
}

func (r *repl) printf(format string, args ...any) {
	r.outMu.Lock()
	fmt.Fprintf(r.out, format, args...)
	r.out.Flush()
	r.outMu.Unlock()
}
