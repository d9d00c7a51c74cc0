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
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"p83.nl/go/flux/pkg/content"
	"p83.nl/go/flux/pkg/jsonfeed"
	"p83.nl/go/flux/pkg/miniflux"
)

type currentUser interface {
	Me(ctx context.Context) (*miniflux.User, error)
}

type serverURL interface {
	URL() string
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseFilter reads key=value arguments like "status=unread limit=10"
func parseFilter(args []string) (*miniflux.Filter, error) {
	values := url.Values{}
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("expected key=value, got %q", arg)
		}
		values.Set(parts[0], parts[1])
	}
	return miniflux.ParseFilter(values)
}

func performCommands(ctx context.Context, sub miniflux.Miniflux, out io.Writer, commands []string) error {
	if len(commands) == 0 {
		flag.Usage()
		return nil
	}

	switch commands[0] {
	case "me":
		me, ok := sub.(currentUser)
		if !ok {
			return errors.New("the current user is unknown")
		}
		user, err := me.Me(ctx)
		if err != nil {
			return err
		}
		showUser(out, user)
		return nil

	case "discover":
		if len(commands) != 2 {
			break
		}
		links, err := sub.Discover(ctx, commands[1])
		if err != nil {
			return err
		}
		for _, link := range links {
			fmt.Fprintf(out, "%-6s %s %s\n", link.Type, link.URL, link.Title)
		}
		return nil

	case "feeds":
		return feedsCommand(ctx, sub, out, commands[1:])

	case "rename":
		if len(commands) != 3 {
			break
		}
		id, err := parseID(commands[1])
		if err != nil {
			return err
		}
		feed, err := sub.UpdateFeed(ctx, id, &commands[2], nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Feed %d renamed to %s\n", feed.ID, feed.Title)
		return nil

	case "move":
		if len(commands) != 3 {
			break
		}
		id, err := parseID(commands[1])
		if err != nil {
			return err
		}
		categoryID, err := parseID(commands[2])
		if err != nil {
			return err
		}
		feed, err := sub.UpdateFeed(ctx, id, nil, &categoryID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Feed %d moved to %s\n", feed.ID, feed.Category.Title)
		return nil

	case "icon":
		if len(commands) != 2 {
			break
		}
		id, err := parseID(commands[1])
		if err != nil {
			return err
		}
		icon, err := sub.FeedIcon(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d %s %s\n", icon.ID, icon.MimeType, humanize.Bytes(uint64(len(icon.Data))))
		return nil

	case "entries":
		return entriesCommand(ctx, sub, out, commands[1:])

	case "entry":
		if len(commands) != 2 {
			break
		}
		id, err := parseID(commands[1])
		if err != nil {
			return err
		}
		entry, err := sub.Entry(ctx, id)
		if err != nil {
			return err
		}
		return showEntry(out, entry)

	case "read", "unread":
		if len(commands) < 2 {
			break
		}
		ids, err := parseIDs(commands[1:])
		if err != nil {
			return err
		}
		if err := sub.UpdateEntries(ctx, ids, miniflux.EntryStatus(commands[0])); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s marked as %s\n", humanize.Comma(int64(len(ids))), commands[0])
		return nil

	case "star":
		if len(commands) != 2 {
			break
		}
		id, err := parseID(commands[1])
		if err != nil {
			return err
		}
		if err := sub.ToggleBookmark(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Entry %d bookmark toggled\n", id)
		return nil

	case "categories":
		return categoriesCommand(ctx, sub, out, commands[1:])

	case "users":
		return usersCommand(ctx, sub, out, commands[1:])

	case "export":
		if len(commands) != 2 {
			break
		}
		return exportCommand(ctx, sub, out, commands[1])
	}

	return errors.Errorf("unknown command: %s", strings.Join(commands, " "))
}

func feedsCommand(ctx context.Context, sub miniflux.Miniflux, out io.Writer, args []string) error {
	switch {
	case len(args) == 0:
		feeds, err := sub.Feeds(ctx)
		if err != nil {
			return err
		}
		for _, feed := range feeds {
			fmt.Fprintf(out, "%-6d %-16s %s (checked %s)\n", feed.ID, feed.Category.Title, feed.Title, humanize.Time(feed.CheckedAt))
			if feed.ParsingErrorCount > 0 {
				fmt.Fprintf(out, "       %d errors: %s\n", feed.ParsingErrorCount, feed.ParsingErrorMessage)
			}
		}
		return nil

	case len(args) == 2 && args[0] == "-delete":
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := sub.RemoveFeed(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Feed %d deleted\n", id)
		return nil

	case len(args) == 2 && args[0] == "-refresh":
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return sub.RefreshFeed(ctx, id)

	case len(args) == 1 || len(args) == 2:
		var categoryID int64
		if len(args) == 2 {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			categoryID = id
		}
		feedID, err := sub.CreateFeed(ctx, args[0], categoryID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", feedID)
		return nil
	}

	return errors.Errorf("unknown command: feeds %s", strings.Join(args, " "))
}

func entriesCommand(ctx context.Context, sub miniflux.Miniflux, out io.Writer, args []string) error {
	var feedID int64
	if len(args) >= 2 && args[0] == "-feed" {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		feedID = id
		args = args[2:]
	}

	filter, err := parseFilter(args)
	if err != nil {
		return err
	}

	var list *miniflux.EntryList
	if feedID != 0 {
		list, err = sub.FeedEntries(ctx, feedID, filter)
	} else {
		list, err = sub.Entries(ctx, filter)
	}
	if err != nil {
		return err
	}

	for _, entry := range list.Entries {
		star := " "
		if entry.Starred {
			star = "*"
		}
		fmt.Fprintf(out, "%-6d %s %-6s %s - %s (%s)\n", entry.ID, star, entry.Status, entry.Feed.Title, entry.Title, humanize.Time(entry.PublishedAt))
		if preview := content.Summary(entry.Content, 72); preview != "" {
			fmt.Fprintf(out, "         %s\n", preview)
		}
	}
	fmt.Fprintf(out, "Showing %d of %s entries\n", len(list.Entries), humanize.Comma(int64(list.Total)))
	return nil
}

func showEntry(out io.Writer, entry *miniflux.Entry) error {
	fmt.Fprintf(out, "%s\n", entry.Title)
	fmt.Fprintf(out, "%s\n", entry.URL)
	if entry.Author != "" {
		fmt.Fprintf(out, "by %s, ", entry.Author)
	}
	fmt.Fprintf(out, "%s in %s\n\n", humanize.Time(entry.PublishedAt), entry.Feed.Title)

	text, err := content.Readable(*entry)
	if err != nil {
		text = content.Text(entry.Content)
	}
	fmt.Fprintln(out, text)
	return nil
}

func categoriesCommand(ctx context.Context, sub miniflux.Miniflux, out io.Writer, args []string) error {
	switch len(args) {
	case 0:
		categories, err := sub.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Fprintf(out, "%-6d %s\n", c.ID, c.Title)
		}
		return nil

	case 1:
		category, err := sub.CreateCategory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d\n", category.ID)
		return nil

	case 2:
		if args[0] == "-delete" {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := sub.DeleteCategory(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Category %d deleted\n", id)
			return nil
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		category, err := sub.UpdateCategory(ctx, id, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Category updated %d %s\n", category.ID, category.Title)
		return nil
	}

	return errors.Errorf("unknown command: categories %s", strings.Join(args, " "))
}

func showUser(out io.Writer, user *miniflux.User) {
	role := "user"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(out, "%-6d %-20s %-5s %s %s\n", user.ID, user.Username, role, user.Language, user.Timezone)
}

func usersCommand(ctx context.Context, sub miniflux.Miniflux, out io.Writer, args []string) error {
	switch {
	case len(args) == 0:
		users, err := sub.Users(ctx)
		if err != nil {
			return err
		}
		for i := range users {
			showUser(out, &users[i])
		}
		return nil

	case len(args) == 2 && args[0] == "-delete":
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := sub.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "User %d deleted\n", id)
		return nil

	case len(args) == 2, len(args) == 3 && args[2] == "admin":
		user, err := sub.CreateUser(ctx, args[0], args[1], len(args) == 3)
		if err != nil {
			return err
		}
		showUser(out, user)
		return nil
	}

	return errors.Errorf("unknown command: users %s", strings.Join(args, " "))
}

func exportCommand(ctx context.Context, sub miniflux.Miniflux, out io.Writer, filetype string) error {
	switch filetype {
	case "opml":
		doc, err := sub.Export(ctx)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, doc)
		return err

	case "jsonfeed":
		list, err := sub.Entries(ctx, nil)
		if err != nil {
			return err
		}
		var homePageURL string
		if s, ok := sub.(serverURL); ok {
			homePageURL = s.URL()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonfeed.FromEntries("Miniflux", homePageURL, list))
	}

	return errors.Errorf("unsupported filetype %q", filetype)
}
