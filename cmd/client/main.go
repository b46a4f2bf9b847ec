// cmd/client/main.go
//
// Interactive terminal client for Triad. This is render-layer glue: it maps
// typed commands to dispatcher intents and prints the dispatcher's views.
// No game rules live here.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/triadgame/triad-client/internal/config"
	"github.com/triadgame/triad-client/internal/conn"
	"github.com/triadgame/triad-client/internal/dispatch"
	"github.com/triadgame/triad-client/internal/protocol"
	"github.com/triadgame/triad-client/internal/session"
)

func main() {
	cfg := config.FromEnv()

	logger := logrus.New()
	logger.SetLevel(cfg.ParseLogLevel())

	var d *dispatch.Dispatcher
	m := conn.NewManager(cfg.ServerURL, logger, func(ev protocol.ServerEvent) {
		d.HandleServerEvent(ev)
	})
	d = dispatch.New(logger, m)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := m.Connect(ctx)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect: %v", err)
	}
	defer m.Disconnect()

	fmt.Println("Connected. Type 'help' for commands.")

	// Keep lobby refreshes polite even if the user hammers the command.
	searchLimiter := rate.NewLimiter(rate.Every(2*time.Second), 1)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", d.Scene())
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := runCommand(ctx, d, searchLimiter, cmd, args)
		cancel()

		if cmd == "quit" {
			return
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		if msg := d.LastError(); msg != "" {
			fmt.Println(msg)
		}
	}
}

func runCommand(ctx context.Context, d *dispatch.Dispatcher, searchLimiter *rate.Limiter, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "signin":
		name := strings.Join(args, " ")
		if name == "" {
			name = "guest-" + uuid.NewString()[:8]
		}
		return d.SignIn(ctx, name)
	case "create":
		if len(args) == 0 {
			return fmt.Errorf("usage: create <room name>")
		}
		return d.CreateGame(ctx, strings.Join(args, " "))
	case "join":
		id, err := intArg(args)
		if err != nil {
			return fmt.Errorf("usage: join <room id>")
		}
		return d.JoinGame(ctx, id)
	case "leave":
		return d.LeaveGame(ctx)
	case "search":
		if !searchLimiter.Allow() {
			return fmt.Errorf("searching too fast, try again in a moment")
		}
		return d.Search(ctx)
	case "start":
		return d.StartGame(ctx)
	case "attack", "counter", "defend":
		return playCard(ctx, d, cmd, args)
	case "skip":
		return d.PlaySkip(ctx)
	case "rooms":
		printRooms(d.Rooms())
		return nil
	case "hand":
		printHand(d)
		return nil
	case "state":
		printState(d)
		return nil
	case "quit":
		return nil
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

// playCard sends a card play intent, gated on the local legality prediction,
// and discards the card from the local hand once offered.
func playCard(ctx context.Context, d *dispatch.Dispatcher, cmd string, args []string) error {
	cardID, err := intArg(args)
	if err != nil {
		return fmt.Errorf("usage: %s <card id>", cmd)
	}

	playable := false
	for _, c := range d.PlayableCards() {
		if c.ID == cardID {
			playable = true
			break
		}
	}
	if !playable {
		return fmt.Errorf("card %d is not playable right now", cardID)
	}

	switch cmd {
	case "attack":
		err = d.PlayAttack(ctx, cardID)
	case "counter":
		err = d.PlayCounter(ctx, cardID)
	case "defend":
		err = d.PlayDefend(ctx, cardID)
	}
	if err != nil {
		return err
	}
	d.DiscardHandCard(cardID)
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one argument")
	}
	return strconv.Atoi(args[0])
}

func printHelp() {
	fmt.Println(`commands:
  signin [name]      sign in (random guest name if omitted)
  search             refresh the room listing
  rooms              print the last room listing
  create <name>      create a room
  join <id>          join a room
  leave              leave the current room
  start              start the game
  hand               print your hand (* marks playable cards)
  attack|counter|defend <card id>
  skip               skip your turn
  state              print the session state
  quit`)
}

func printRooms(rooms []protocol.Room) {
	if len(rooms) == 0 {
		fmt.Println("no rooms, try 'search'")
		return
	}
	for _, r := range rooms {
		full := ""
		if r.IsFull {
			full = " (full)"
		}
		fmt.Printf("  %d: %s [%d players]%s\n", r.GameID, r.GameName, r.PlayerCount, full)
	}
}

func printHand(d *dispatch.Dispatcher) {
	sess := d.Session()
	if sess == nil {
		fmt.Println("not in a game")
		return
	}
	playable := map[int]bool{}
	for _, c := range d.PlayableCards() {
		playable[c.ID] = true
	}
	for _, c := range sess.Hand {
		mark := " "
		if playable[c.ID] {
			mark = "*"
		}
		fmt.Printf("%s %3d: %s (%s/%s %v)\n", mark, c.ID, c.Title, c.Type, c.Category, c.Subcategories)
	}
}

func printState(d *dispatch.Dispatcher) {
	sess := d.Session()
	if sess == nil {
		fmt.Printf("scene=%s player=%s (no session)\n", d.Scene(), d.PlayerName())
		return
	}
	fmt.Printf("room %d %q host=%s players=%v phase=%s turn=%s\n",
		sess.ID, sess.Name, sess.Host, sess.Players, sess.Phase, sess.CurrentTurn)
	for _, p := range sess.Players {
		sc := sess.ScoresByPlayer[p]
		fmt.Printf("  %s: red=%d orange=%d blue=%d\n", p, sc.Red, sc.Orange, sc.Blue)
	}
	if top, ok := sess.TopDiscard(); ok {
		fmt.Printf("  discard top: %s (%s/%s %v)\n", top.Title, top.Type, top.Category, top.Subcategories)
	}
	if sess.Phase == session.PhaseAttack && sess.IsAttackTarget {
		fmt.Println("  you are under attack")
	}
	if msg := d.Announcement(); msg != "" {
		fmt.Println("  " + msg)
	}
}
