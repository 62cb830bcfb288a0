// Package main provides the player CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
)

var (
	app    = kingpin.New("podbox-cli", "podbox player client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("PODBOX_SERVER").String()

	// episodes command
	episodesCmd   = app.Command("episodes", "List episodes (fuzzy search with a query)").Alias("ls")
	episodesQuery = episodesCmd.Arg("query", "Search query").Strings()

	// play command
	playCmd     = app.Command("play", "Play an episode from the listing")
	playSection = playCmd.Arg("section", "Listing section").Required().Enum("latest", "all")
	playIndex   = playCmd.Arg("index", "Index within the section").Required().Int32()

	// play-id command
	playIDCmd = app.Command("play-id", "Play a single episode by ID")
	playID    = playIDCmd.Arg("id", "Episode ID").Required().String()

	toggleCmd  = app.Command("toggle", "Toggle play/pause")
	nextCmd    = app.Command("next", "Play the next episode")
	prevCmd    = app.Command("prev", "Play the previous episode")
	shuffleCmd = app.Command("shuffle", "Toggle shuffle")
	loopCmd    = app.Command("loop", "Toggle loop")
	clearCmd   = app.Command("clear", "Clear the queue")
	statusCmd  = app.Command("status", "Show the player")

	// seek command
	seekCmd     = app.Command("seek", "Seek within the current episode")
	seekSeconds = seekCmd.Arg("seconds", "Position in seconds").Required().Int32()

	// subscribe command
	subscribeCmd = app.Command("subscribe", "Subscribe to player updates")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := podboxv1connect.NewPlayerServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()
	empty := func() *connect.Request[podboxv1.Empty] { return connect.NewRequest(&podboxv1.Empty{}) }

	switch command {
	case episodesCmd.FullCommand():
		listEpisodes(ctx, client, strings.Join(*episodesQuery, " "))
	case playCmd.FullCommand():
		printPlayer(client.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{
			Section: *playSection,
			Index:   *playIndex,
		})))
	case playIDCmd.FullCommand():
		printPlayer(client.PlayEpisode(ctx, connect.NewRequest(&podboxv1.PlayEpisodeRequest{
			EpisodeId: *playID,
		})))
	case toggleCmd.FullCommand():
		printPlayer(client.TogglePlay(ctx, empty()))
	case nextCmd.FullCommand():
		printPlayer(client.Next(ctx, empty()))
	case prevCmd.FullCommand():
		printPlayer(client.Previous(ctx, empty()))
	case shuffleCmd.FullCommand():
		printPlayer(client.ToggleShuffle(ctx, empty()))
	case loopCmd.FullCommand():
		printPlayer(client.ToggleLoop(ctx, empty()))
	case clearCmd.FullCommand():
		printPlayer(client.Clear(ctx, empty()))
	case seekCmd.FullCommand():
		printPlayer(client.Seek(ctx, connect.NewRequest(&podboxv1.SeekRequest{Seconds: *seekSeconds})))
	case statusCmd.FullCommand():
		printPlayer(client.GetPlayer(ctx, empty()))
	case subscribeCmd.FullCommand():
		subscribe(ctx, client)
	}
}

func listEpisodes(ctx context.Context, client podboxv1connect.PlayerServiceClient, query string) {
	resp, err := client.ListEpisodes(ctx, connect.NewRequest(&podboxv1.ListEpisodesRequest{Query: query}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	m := resp.Msg
	if query != "" {
		fmt.Printf("=== RESULTS FOR %q (%d) ===\n", query, len(m.Matches))
		for _, match := range m.Matches {
			section, index := "latest", match.Index
			if int(match.Index) >= len(m.Latest) {
				section, index = "all", match.Index-int32(len(m.Latest))
			}
			fmt.Printf("  [%s %d] %s  (%s, score %d)\n", section, index, match.Episode.Title, match.Episode.DurationAsString, match.Score)
		}
		return
	}

	fmt.Printf("Catalog: %s\n", m.CatalogStatus)
	fmt.Println("\n=== LATEST ===")
	printEpisodes("latest", m.Latest)
	fmt.Println("\n=== ALL ===")
	printEpisodes("all", m.All)
}

func printEpisodes(section string, eps []*podboxv1.Episode) {
	for i, ep := range eps {
		fmt.Printf("  [%s %d] %s\n", section, i, ep.Title)
		fmt.Printf("      %s | %s | %s | id=%s\n", ep.Members, ep.PublishedAt, ep.DurationAsString, ep.Id)
	}
}

func printPlayer(resp *connect.Response[podboxv1.PlayerResponse], err error) {
	if err != nil {
		fmt.Printf("Error [%s]: %v\n", connect.CodeOf(err), err)
		os.Exit(1)
	}
	printPlayerState(resp.Msg.Player)
}

func printPlayerState(p *podboxv1.PlayerState) {
	if p == nil {
		return
	}
	if p.Idle {
		fmt.Println("Player: idle (select an episode to play)")
		return
	}

	fmt.Printf("Player: %s\n", formatStatus(p.Status))
	if p.Episode != nil {
		fmt.Printf("  Episode: %s\n", p.Episode.Title)
		fmt.Printf("  Members: %s\n", p.Episode.Members)
	}
	fmt.Printf("  Position: %s / %s\n", p.ElapsedLabel, p.DurationLabel)
	fmt.Printf("  Queue: %d/%d\n", p.ActiveIndex+1, p.QueueLength)
	if p.Controls != nil {
		fmt.Printf("  Controls: %s\n", formatControls(p.Controls))
	}
}

func formatStatus(status string) string {
	switch status {
	case "playing":
		return "▶️  Playing"
	case "paused":
		return "⏸  Paused"
	case "idle":
		return "⏹  Idle"
	default:
		return "❓ " + status
	}
}

func formatControls(c *podboxv1.Controls) string {
	parts := []string{
		formatButton("shuffle", c.Shuffle),
		formatButton("prev", c.Previous),
		formatButton("play", c.PlayPause),
		formatButton("next", c.Next),
		formatButton("loop", c.Loop),
	}
	return strings.Join(parts, " ")
}

func formatButton(name string, b *podboxv1.Button) string {
	switch {
	case b == nil || !b.Enabled:
		return "(" + name + ")"
	case b.Active:
		return "[" + strings.ToUpper(name) + "]"
	default:
		return "[" + name + "]"
	}
}

func subscribe(ctx context.Context, client podboxv1connect.PlayerServiceClient) {
	stream, err := client.SubscribePlayer(ctx, connect.NewRequest(&podboxv1.Empty{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Subscribed to player updates. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		os.Exit(0)
	}()

	for stream.Receive() {
		n := stream.Msg()
		fmt.Printf("\n[Sequence: %d] ", n.SequenceNo)
		switch n.Type {
		case podboxv1.NotificationTypeCatalogRefreshed:
			fmt.Println("=== CATALOG REFRESHED ===")
			fmt.Printf("  Status: %s, episodes: %d\n", n.CatalogStatus, n.EpisodeCount)
		default:
			fmt.Println("=== PLAYER ===")
			printPlayerState(n.Player)
		}
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}
