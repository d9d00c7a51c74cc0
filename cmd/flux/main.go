/*
 *  Flux is a client for the Miniflux API
 *  Copyright (c) 2021 The Ekster authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"p83.nl/go/flux/pkg/client"
	"p83.nl/go/flux/pkg/server"
)

var (
	verbose    = flag.Bool("verbose", false, "show verbose logging")
	configFile = flag.String("config", defaultConfigFile(), "file with the server url and credentials")
)

func init() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
}

func usage() {
	fmt.Print(`Flux is a tool for managing a Miniflux server.

Usage:

	flux command [arguments]

Commands:

	connect URL USER PASSWORD    check and save the credentials for the server at URL
	me                           show the current user

	discover URL                 find the feeds of the website at URL

	feeds                        list feeds
	feeds URL [CATEGORY]         subscribe to the feed at URL
	feeds -delete ID             unsubscribe from feed ID
	feeds -refresh ID            refresh feed ID
	rename ID TITLE              change the title of feed ID
	move ID CATEGORY             move feed ID to CATEGORY
	icon ID                      show the icon of feed ID

	entries [k=v...]             list entries, filtered with status, offset, limit, direction and order
	entries -feed ID [k=v...]    list entries of feed ID
	entry ID                     show entry ID
	read ID...                   mark entries as read
	unread ID...                 mark entries as unread
	star ID                      toggle the bookmark of entry ID

	categories                   list categories
	categories TITLE             create category with TITLE
	categories ID TITLE          rename category ID to TITLE
	categories -delete ID        delete category ID and its feeds

	users                        list users
	users NAME PASSWORD [admin]  create a user
	users -delete ID             delete user ID

	export opml                  export feeds as OPML
	export jsonfeed              export entries as JSON Feed

	serve ADDR                   run an in-memory server on ADDR

Global arguments:

`)
	flag.PrintDefaults()
}

func connect(ctx context.Context, filename, serverURL, username, password string) error {
	c, err := client.New(serverURL, username, password, client.WithLogging(*verbose))
	if err != nil {
		return err
	}

	ok, err := c.VerifyCredentials(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("the server at %s does not accept the credentials of %s", serverURL, username)
	}

	return saveConfig(filename, config{URL: serverURL, Username: username, Password: password})
}

func serve(ctx context.Context, addr string, cfg config) error {
	if cfg.Username == "" || cfg.Password == "" {
		cfg.Username, cfg.Password = "admin", "admin"
	}
	log.Printf("Serving the v1 API on %s for user %q\n", addr, cfg.Username)

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(server.NewMemoryBackend(cfg.Username, cfg.Password)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println(err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return
	}

	if len(args) == 4 && args[0] == "connect" {
		if err := connect(ctx, *configFile, args[1], args[2], args[3]); err != nil {
			log.Fatalf("An error occurred: %s\n", err)
		}
		log.Println("Connection successful")
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		log.Fatal(err)
	}
	cfg = withEnv(cfg, os.Getenv)

	if len(args) == 2 && args[0] == "serve" {
		if err := serve(ctx, args[1], cfg); err != nil {
			log.Fatalf("An error occurred: %s\n", err)
		}
		return
	}

	if cfg.URL == "" {
		log.Fatalf("No server configured, use: flux connect URL USER PASSWORD")
	}

	c, err := client.New(cfg.URL, cfg.Username, cfg.Password, client.WithLogging(*verbose))
	if err != nil {
		log.Fatal(err)
	}

	if err := performCommands(ctx, c, os.Stdout, args); err != nil {
		log.Fatalf("An error occurred: %s\n", err)
	}
}
