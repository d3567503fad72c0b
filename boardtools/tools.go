// Package boardtools exposes the Trello board, list, and card operations as
// host-callable tools. Each tool is one synchronous upstream call followed by
// a minimal, stable projection of the reply; every upstream failure is caught
// inside the tool and returned as a JSON error envelope, never as an execution
// error, so the host-visible contract is always "a JSON string comes back".
package boardtools

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/skosovsky/trelly"
	"github.com/skosovsky/trelly/trello"
)

// maxRecentBoards caps the list_boards reply.
const maxRecentBoards = 5

type boardSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type searchResults struct {
	Results []boardSummary `json:"results"`
}

type boardDetails struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Desc         string  `json:"desc"`
	URL          string  `json:"url"`
	Closed       bool    `json:"closed"`
	Organization *string `json:"organization"`
}

type listSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Closed  bool   `json:"closed"`
	BoardID string `json:"boardId"`
}

type cardSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	URL    string `json:"url"`
	Closed bool   `json:"closed"`
}

type createdCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	URL    string `json:"url"`
	ListID string `json:"listId"`
}

type searchArgs struct {
	Query string `json:"query" description:"Search term to find boards containing this text"`
}

type boardArgs struct {
	BoardID string `json:"board_id" description:"The ID of the Trello board"`
}

type listArgs struct {
	ListID string `json:"list_id" description:"The ID of the Trello list"`
}

type createCardArgs struct {
	ListID string `json:"list_id" description:"The ID of the Trello list where to create the card"`
	Name   string `json:"name" description:"The name/title of the new card"`
	Desc   string `json:"desc,omitempty" description:"Optional description for the new card"`
}

// RegisterAll builds the six Trello tools and registers them on reg.
func RegisterAll(reg *trelly.Registry, client *trello.Client) error {
	builders := []func(*trello.Client) (trelly.Tool, error){
		NewListBoards,
		NewSearchBoards,
		NewBoardDetails,
		NewGetLists,
		NewGetCards,
		NewCreateCard,
	}
	for _, build := range builders {
		tool, err := build(client)
		if err != nil {
			return err
		}
		reg.Register(tool)
	}
	return nil
}

// NewListBoards returns the list_boards tool: the five most recent open
// boards, each projected to id, name, and url.
func NewListBoards(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("list_boards",
		"List all accessible Trello boards. Returns the 5 most recent open boards with basic information. Use this as the first step to see what boards are available.",
		func(ctx context.Context, _ struct{}) (json.RawMessage, error) {
			raw, err := client.Fetch(ctx, "members/me/boards", nil)
			if err != nil {
				return failure("Failed to fetch boards", err, "boards"), nil
			}
			open, err := openBoardSummaries(raw)
			if err != nil {
				return failure("Failed to fetch boards", err, "boards"), nil
			}
			if len(open) > maxRecentBoards {
				open = open[:maxRecentBoards]
			}
			return json.Marshal(open)
		},
		trelly.WithTags("boards"),
	)
}

// NewSearchBoards returns the search_boards tool: open boards whose name or
// description contains the query, case-insensitively. No cap.
func NewSearchBoards(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("search_boards",
		"Search for boards by name or description. Returns all open boards containing the query text.",
		func(ctx context.Context, args searchArgs) (json.RawMessage, error) {
			raw, err := client.Fetch(ctx, "members/me/boards", nil)
			if err != nil {
				return failure("Search failed", err, "results"), nil
			}
			boards, err := trello.AsObjects(raw)
			if err != nil {
				return failure("Search failed", err, "results"), nil
			}
			query := strings.ToLower(args.Query)
			matches := make([]boardSummary, 0)
			for _, b := range boards {
				if b.Bool("closed") {
					continue
				}
				name, err := b.String("name")
				if err != nil {
					return failure("Search failed", err, "results"), nil
				}
				desc := b.StringOr("desc", "")
				if !strings.Contains(strings.ToLower(name), query) &&
					!strings.Contains(strings.ToLower(desc), query) {
					continue
				}
				s, err := summarizeBoard(b)
				if err != nil {
					return failure("Search failed", err, "results"), nil
				}
				matches = append(matches, s)
			}
			return json.Marshal(searchResults{Results: matches})
		},
		trelly.WithTags("boards"),
	)
}

// NewBoardDetails returns the get_board_details tool. The projection always
// carries id, name, desc, url, closed, and organization; desc defaults to ""
// and closed to false, organization is null when the board has none.
func NewBoardDetails(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("get_board_details",
		"Get detailed information about a specific board.",
		func(ctx context.Context, args boardArgs) (json.RawMessage, error) {
			raw, err := client.Fetch(ctx, "boards/"+args.BoardID, nil)
			if err != nil {
				return failure("Failed to fetch board", err, ""), nil
			}
			board, err := trello.AsObject(raw)
			if err != nil {
				return failure("Failed to fetch board", err, ""), nil
			}
			id, err := board.String("id")
			if err != nil {
				return failure("Failed to fetch board", err, ""), nil
			}
			name, err := board.String("name")
			if err != nil {
				return failure("Failed to fetch board", err, ""), nil
			}
			boardURL, err := board.String("url")
			if err != nil {
				return failure("Failed to fetch board", err, ""), nil
			}
			return json.Marshal(boardDetails{
				ID:           id,
				Name:         name,
				Desc:         board.StringOr("desc", ""),
				URL:          boardURL,
				Closed:       board.Bool("closed"),
				Organization: board.StringOrNil("idOrganization"),
			})
		},
		trelly.WithTags("boards"),
	)
}

// NewGetLists returns the get_lists tool: all lists of a board, in upstream
// order. The idBoard back-reference is required; a record without it makes
// the whole reply malformed.
func NewGetLists(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("get_lists",
		"Get all lists from a specific Trello board. Use this to see the structure of a board and find list IDs.",
		func(ctx context.Context, args boardArgs) (json.RawMessage, error) {
			raw, err := client.Fetch(ctx, "boards/"+args.BoardID+"/lists", nil)
			if err != nil {
				return failure("Failed to fetch lists", err, ""), nil
			}
			lists, err := trello.AsObjects(raw)
			if err != nil {
				return failure("Failed to fetch lists", err, ""), nil
			}
			out := make([]listSummary, 0, len(lists))
			for _, l := range lists {
				id, err := l.String("id")
				if err != nil {
					return failure("Failed to fetch lists", err, ""), nil
				}
				name, err := l.String("name")
				if err != nil {
					return failure("Failed to fetch lists", err, ""), nil
				}
				boardID, err := l.String("idBoard")
				if err != nil {
					return failure("Failed to fetch lists", err, ""), nil
				}
				out = append(out, listSummary{
					ID:      id,
					Name:    name,
					Closed:  l.Bool("closed"),
					BoardID: boardID,
				})
			}
			return json.Marshal(out)
		},
		trelly.WithTags("lists"),
	)
}

// NewGetCards returns the get_cards tool: all cards of a list, in upstream order.
func NewGetCards(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("get_cards",
		"Get all cards from a specific Trello list. Use this to see what tasks or items are in a list.",
		func(ctx context.Context, args listArgs) (json.RawMessage, error) {
			raw, err := client.Fetch(ctx, "lists/"+args.ListID+"/cards", nil)
			if err != nil {
				return failure("Failed to fetch cards", err, ""), nil
			}
			cards, err := trello.AsObjects(raw)
			if err != nil {
				return failure("Failed to fetch cards", err, ""), nil
			}
			out := make([]cardSummary, 0, len(cards))
			for _, c := range cards {
				id, err := c.String("id")
				if err != nil {
					return failure("Failed to fetch cards", err, ""), nil
				}
				name, err := c.String("name")
				if err != nil {
					return failure("Failed to fetch cards", err, ""), nil
				}
				cardURL, err := c.String("shortUrl")
				if err != nil {
					return failure("Failed to fetch cards", err, ""), nil
				}
				out = append(out, cardSummary{
					ID:     id,
					Name:   name,
					Desc:   c.StringOr("desc", ""),
					URL:    cardURL,
					Closed: c.Bool("closed"),
				})
			}
			return json.Marshal(out)
		},
		trelly.WithTags("cards"),
	)
}

// NewCreateCard returns the create_card tool, the only mutating operation:
// it creates a card in the given list and projects the created resource.
func NewCreateCard(client *trello.Client) (trelly.Tool, error) {
	return trelly.NewTool("create_card",
		"Create a new card in a Trello list. Use this to add new tasks or items to a list.",
		func(ctx context.Context, args createCardArgs) (json.RawMessage, error) {
			params := url.Values{}
			params.Set("idList", args.ListID)
			params.Set("name", args.Name)
			params.Set("desc", args.Desc)
			raw, err := client.Create(ctx, "cards", params)
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			card, err := trello.AsObject(raw)
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			id, err := card.String("id")
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			name, err := card.String("name")
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			cardURL, err := card.String("shortUrl")
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			listID, err := card.String("idList")
			if err != nil {
				return failure("Failed to create card", err, ""), nil
			}
			return json.Marshal(createdCard{
				ID:     id,
				Name:   name,
				Desc:   card.StringOr("desc", ""),
				URL:    cardURL,
				ListID: listID,
			})
		},
		trelly.WithTags("cards"),
		trelly.WithDangerous(),
	)
}

// openBoardSummaries projects every open board in raw, in upstream order.
func openBoardSummaries(raw any) ([]boardSummary, error) {
	boards, err := trello.AsObjects(raw)
	if err != nil {
		return nil, err
	}
	out := make([]boardSummary, 0, len(boards))
	for _, b := range boards {
		if b.Bool("closed") {
			continue
		}
		s, err := summarizeBoard(b)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// summarizeBoard projects a board record to id, name, and its short URL.
func summarizeBoard(b trello.Object) (boardSummary, error) {
	id, err := b.String("id")
	if err != nil {
		return boardSummary{}, err
	}
	name, err := b.String("name")
	if err != nil {
		return boardSummary{}, err
	}
	shortURL, err := b.String("shortUrl")
	if err != nil {
		return boardSummary{}, err
	}
	return boardSummary{ID: id, Name: name, URL: shortURL}, nil
}
