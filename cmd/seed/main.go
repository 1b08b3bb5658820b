package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/alphabot-ai/myblog/internal/client"
)

var authors = []struct {
	name     string
	username string
	email    string
}{
	{"Ada Lovelace", "adalove", "ada@example.com"},
	{"Grace Hopper", "ghopper", "grace@example.com"},
	{"Linus Pauling", "lpauling", "linus@example.com"},
}

var articles = []struct {
	title   string
	content string
}{
	{"Hello, world", "My very first article on this blog. More to come soon."},
	{"Notes on the Analytical Engine", "The engine weaves algebraic patterns just as the loom weaves flowers and leaves."},
	{"Debugging, literally", "We found a moth stuck in relay 70 of panel F and taped it into the logbook."},
	{"Why compilers matter", "Writing programs in English-like languages lets more people talk to machines."},
	{"Vitamin C and you", "A long look at the evidence, and a few things I would write differently today."},
	{"Weekend reading list", "Three books, two papers and one very long blog thread worth your time."},
	{"On chemical bonds", "Resonance explains why some molecules are more stable than any single drawing suggests."},
	{"Go for small services", "A single binary, a sqlite file and a systemd unit go a surprisingly long way."},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "myblog server URL")
	pass := flag.String("password", "secret123", "Password for every demo account")
	flag.Parse()

	ctx := context.Background()
	log.Printf("Seeding blog at %s...\n", *baseURL)

	var clients []*client.Client
	for _, a := range authors {
		c := client.New(*baseURL)
		err := c.RegisterAndLogin(ctx, a.name, a.username, a.email, *pass)
		if errors.Is(err, client.ErrAlreadyRegistered) {
			err = c.Login(ctx, a.username, *pass)
		}
		if err != nil {
			log.Fatalf("register %s: %v", a.username, err)
		}
		log.Printf("✓ Logged in as %s", a.username)
		clients = append(clients, c)
	}

	created := 0
	for _, a := range articles {
		c := clients[rand.Intn(len(clients))]
		if err := c.CreateArticle(ctx, a.title, a.content); err != nil {
			log.Printf("✗ Failed to create article %q: %v", a.title, err)
			continue
		}
		created++
		log.Printf("✓ Created article: %s (by %s)", a.title, c.Username())

		// Spread out created_at times
		time.Sleep(50 * time.Millisecond)
	}

	for _, c := range clients {
		if err := c.Logout(ctx); err != nil {
			log.Printf("✗ Failed to log out %s: %v", c.Username(), err)
		}
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Authors:  %d\n", len(authors))
	fmt.Printf("Articles: %d\n", created)
	fmt.Println("\nView at:", *baseURL+"/articles")
}
