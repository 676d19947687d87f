package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/boardops/businessmap"
)

func createCardTool() mcp.Tool {
	return mcp.NewTool("create_card",
		mcp.WithDescription("Create a card in a column."),
		mcp.WithNumber("column_id", mcp.Required(), mcp.Description("Destination column id.")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Card title.")),
		mcp.WithNumber("board_id", mcp.Description("Board id, when the column id alone is ambiguous.")),
		mcp.WithNumber("lane_id", mcp.Description("Destination lane id.")),
		mcp.WithString("description", mcp.Description("Card description.")),
		mcp.WithString("custom_id", mcp.Description("Custom card id shown on the board.")),
		mcp.WithNumber("owner_user_id", mcp.Description("Owner user id.")),
		mcp.WithString("priority", mcp.Description("Card priority.")),
		mcp.WithString("color", mcp.Description("Card color, e.g. #99b433.")),
		mcp.WithNumber("size", mcp.Description("Card size estimate.")),
		mcp.WithString("deadline", mcp.Description("Deadline, RFC 3339 or date only.")),
		withInstance(),
	)
}

func (s *Server) createCard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	columnID, err := req.RequireInt("column_id")
	if err != nil {
		return nil, err
	}
	title, err := req.RequireString("title")
	if err != nil {
		return nil, err
	}
	return c.CreateCard(ctx, businessmap.CreateCardRequest{
		ColumnID:    int64(columnID),
		Title:       title,
		BoardID:     int64(req.GetInt("board_id", 0)),
		LaneID:      int64(req.GetInt("lane_id", 0)),
		Description: req.GetString("description", ""),
		CustomID:    req.GetString("custom_id", ""),
		OwnerUserID: int64(req.GetInt("owner_user_id", 0)),
		Priority:    req.GetString("priority", ""),
		Color:       req.GetString("color", ""),
		Size:        req.GetInt("size", 0),
		Deadline:    req.GetString("deadline", ""),
	})
}

func updateCardTool() mcp.Tool {
	return mcp.NewTool("update_card",
		mcp.WithDescription("Update fields of a card. Only the supplied fields change."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("description", mcp.Description("New description.")),
		mcp.WithString("custom_id", mcp.Description("New custom id.")),
		mcp.WithNumber("owner_user_id", mcp.Description("New owner user id.")),
		mcp.WithString("priority", mcp.Description("New priority.")),
		mcp.WithString("color", mcp.Description("New color.")),
		mcp.WithNumber("size", mcp.Description("New size estimate.")),
		mcp.WithString("deadline", mcp.Description("New deadline.")),
		mcp.WithBoolean("is_blocked", mcp.Description("Block or unblock the card.")),
		mcp.WithString("block_reason", mcp.Description("Reason shown while the card is blocked.")),
		withInstance(),
	)
}

func (s *Server) updateCard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}

	// Presence matters here: an omitted field stays untouched upstream.
	args := req.GetArguments()
	upd := businessmap.UpdateCardRequest{
		Title:       optString(args, "title"),
		Description: optString(args, "description"),
		CustomID:    optString(args, "custom_id"),
		OwnerUserID: optInt64(args, "owner_user_id"),
		Priority:    optString(args, "priority"),
		Color:       optString(args, "color"),
		Size:        optInt(args, "size"),
		Deadline:    optString(args, "deadline"),
		IsBlocked:   optBool(args, "is_blocked"),
		BlockReason: optString(args, "block_reason"),
	}
	return c.UpdateCard(ctx, int64(cardID), upd)
}

func moveCardTool() mcp.Tool {
	return mcp.NewTool("move_card",
		mcp.WithDescription("Move a card to a column, and optionally a lane and position."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		mcp.WithNumber("column_id", mcp.Required(), mcp.Description("Destination column id.")),
		mcp.WithNumber("lane_id", mcp.Description("Destination lane id.")),
		mcp.WithNumber("position", mcp.Description("Zero-based position within the column.")),
		withInstance(),
	)
}

func (s *Server) moveCard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}
	columnID, err := req.RequireInt("column_id")
	if err != nil {
		return nil, err
	}
	return c.MoveCard(ctx, int64(cardID), businessmap.MoveCardRequest{
		ColumnID: int64(columnID),
		LaneID:   int64(req.GetInt("lane_id", 0)),
		Position: optInt(req.GetArguments(), "position"),
	})
}

func deleteCardTool() mcp.Tool {
	return mcp.NewTool("delete_card",
		mcp.WithDescription("Delete a card."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		withInstance(),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func (s *Server) deleteCard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}
	if err := c.DeleteCard(ctx, int64(cardID)); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true, "card_id": cardID}, nil
}

func addCommentTool() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a card."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Comment text.")),
		withInstance(),
	)
}

func (s *Server) addComment(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}
	text, err := req.RequireString("text")
	if err != nil {
		return nil, err
	}
	return c.AddComment(ctx, int64(cardID), text)
}

// Optional-argument extractors. MCP arguments arrive as JSON values, so
// numbers are float64.

func optString(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func optInt(args map[string]any, key string) *int {
	if v, ok := args[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func optInt64(args map[string]any, key string) *int64 {
	if v, ok := args[key].(float64); ok {
		n := int64(v)
		return &n
	}
	return nil
}

func optBool(args map[string]any, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}
