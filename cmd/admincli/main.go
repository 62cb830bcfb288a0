// Package main provides the admin CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/podbox/internal/api/connect"
	podboxv1 "github.com/osa030/podbox/internal/api/podboxv1"
	"github.com/osa030/podbox/internal/api/podboxv1/podboxv1connect"
)

var (
	app    = kingpin.New("podbox-admincli", "podbox admin client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Admin token (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// status command
	statusCmd = app.Command("status", "Get server status")

	// refresh command
	refreshCmd = app.Command("refresh", "Reload the episode catalog now")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *token == "" {
		fmt.Println("Error: admin token is required (use --token or ADMIN_TOKEN env)")
		os.Exit(1)
	}

	client := podboxv1connect.NewAdminServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	switch command {
	case statusCmd.FullCommand():
		status(ctx, client, *token)
	case refreshCmd.FullCommand():
		refresh(ctx, client, *token)
	}
}

func newRequest(token string) *connect.Request[podboxv1.Empty] {
	req := connect.NewRequest(&podboxv1.Empty{})
	req.Header().Set(apiconnect.AdminTokenHeader, token)
	return req
}

func status(ctx context.Context, client podboxv1connect.AdminServiceClient, token string) {
	resp, err := client.GetStatus(ctx, newRequest(token))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	s := resp.Msg
	fmt.Println("\n=== CURRENT STATUS ===")
	fmt.Printf("Session ID: %s\n", s.SessionId)
	fmt.Printf("Started At: %s\n", s.StartedAt)
	fmt.Printf("Subscribers: %d\n", s.SubscriberCount)

	fmt.Println("\nCatalog:")
	fmt.Printf("  Status: %s\n", s.CatalogStatus)
	fmt.Printf("  Episodes: %d\n", s.EpisodeCount)
	fmt.Printf("  Total Duration: %s\n", s.TotalDurationStr)
	if s.CatalogUpdatedAt != "" {
		fmt.Printf("  Updated At: %s\n", s.CatalogUpdatedAt)
	}
	if s.CatalogError != "" {
		fmt.Printf("  Last Error: %s\n", s.CatalogError)
	}

	if p := s.Player; p != nil {
		fmt.Println("\nPlayer:")
		if p.Idle {
			fmt.Println("  Idle")
		} else {
			if p.Episode != nil {
				fmt.Printf("  Episode: %s (%s)\n", p.Episode.Title, p.Episode.Id)
			}
			fmt.Printf("  Status: %s\n", p.Status)
			fmt.Printf("  Position: %s / %s\n", p.ElapsedLabel, p.DurationLabel)
		}
	}

	if len(s.Queue) > 0 {
		fmt.Printf("\nQueue (%d):\n", len(s.Queue))
		for i, ep := range s.Queue {
			marker := " "
			if s.Player != nil && !s.Player.Idle && int32(i) == s.Player.ActiveIndex {
				marker = ">"
			}
			fmt.Printf(" %s %2d. %s [%s]\n", marker, i+1, ep.Title, ep.DurationAsString)
		}
	}
	fmt.Println()
}

func refresh(ctx context.Context, client podboxv1connect.AdminServiceClient, token string) {
	resp, err := client.Refresh(ctx, newRequest(token))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Msg.Success {
		fmt.Printf("Success: %s\n", resp.Msg.Message)
	} else {
		fmt.Printf("Failed: %s\n", resp.Msg.Message)
		os.Exit(1)
	}
}
