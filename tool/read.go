package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/boardops/businessmap"
)

func listWorkspacesTool() mcp.Tool {
	return mcp.NewTool("list_workspaces",
		mcp.WithDescription("List all workspaces visible to the configured API key."),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listWorkspaces(ctx context.Context, c *businessmap.Client, _ mcp.CallToolRequest) (any, error) {
	return c.ListWorkspaces(ctx)
}

func listBoardsTool() mcp.Tool {
	return mcp.NewTool("list_boards",
		mcp.WithDescription("List boards, optionally scoped to a workspace."),
		mcp.WithNumber("workspace_id",
			mcp.Description("Workspace id. Omit to use the instance default, if one is configured."),
		),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listBoards(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	return c.ListBoards(ctx, int64(req.GetInt("workspace_id", 0)))
}

func getBoardTool() mcp.Tool {
	return mcp.NewTool("get_board",
		mcp.WithDescription("Get one board by id."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) getBoard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	boardID, err := req.RequireInt("board_id")
	if err != nil {
		return nil, err
	}
	return c.GetBoard(ctx, int64(boardID))
}

func listColumnsTool() mcp.Tool {
	return mcp.NewTool("list_columns",
		mcp.WithDescription("List the columns of a board."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listColumns(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	boardID, err := req.RequireInt("board_id")
	if err != nil {
		return nil, err
	}
	return c.ListColumns(ctx, int64(boardID))
}

func listLanesTool() mcp.Tool {
	return mcp.NewTool("list_lanes",
		mcp.WithDescription("List the lanes (swimlanes) of a board."),
		mcp.WithNumber("board_id", mcp.Required(), mcp.Description("Board id.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listLanes(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	boardID, err := req.RequireInt("board_id")
	if err != nil {
		return nil, err
	}
	return c.ListLanes(ctx, int64(boardID))
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List cards matching a filter. All filter fields are optional."),
		mcp.WithNumber("board_id", mcp.Description("Only cards on this board.")),
		mcp.WithNumber("column_id", mcp.Description("Only cards in this column.")),
		mcp.WithNumber("lane_id", mcp.Description("Only cards in this lane.")),
		mcp.WithNumber("owner_user_id", mcp.Description("Only cards owned by this user.")),
		mcp.WithNumber("page", mcp.Description("Page number, starting at 1.")),
		mcp.WithNumber("per_page", mcp.Description("Page size.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listCards(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	filter := businessmap.CardFilter{
		BoardID:     int64(req.GetInt("board_id", 0)),
		ColumnID:    int64(req.GetInt("column_id", 0)),
		LaneID:      int64(req.GetInt("lane_id", 0)),
		OwnerUserID: int64(req.GetInt("owner_user_id", 0)),
		Page:        req.GetInt("page", 0),
		PerPage:     req.GetInt("per_page", 0),
	}
	return c.ListCards(ctx, filter)
}

func getCardTool() mcp.Tool {
	return mcp.NewTool("get_card",
		mcp.WithDescription("Get one card by id."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) getCard(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}
	return c.GetCard(ctx, int64(cardID))
}

func listCommentsTool() mcp.Tool {
	return mcp.NewTool("list_comments",
		mcp.WithDescription("List the comments on a card."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card id.")),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) listComments(ctx context.Context, c *businessmap.Client, req mcp.CallToolRequest) (any, error) {
	cardID, err := req.RequireInt("card_id")
	if err != nil {
		return nil, err
	}
	return c.ListComments(ctx, int64(cardID))
}
