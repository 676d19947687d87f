package businessmap

import "strconv"

// Workspace is a Businessmap workspace.
type Workspace struct {
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
	Type        int    `json:"type,omitempty"`
}

// Board is a kanban board inside a workspace.
type Board struct {
	BoardID     int64  `json:"board_id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Column is a board column. Top-level columns have ParentColumnID zero.
type Column struct {
	ColumnID       int64  `json:"column_id"`
	WorkflowID     int64  `json:"workflow_id"`
	ParentColumnID int64  `json:"parent_column_id,omitempty"`
	Name           string `json:"name"`
	Position       int    `json:"position"`
	Limit          int    `json:"limit,omitempty"`
}

// Lane is a horizontal swimlane on a board.
type Lane struct {
	LaneID     int64  `json:"lane_id"`
	WorkflowID int64  `json:"workflow_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	Color      string `json:"color,omitempty"`
}

// Card is a work item on a board.
type Card struct {
	CardID       int64  `json:"card_id"`
	CustomID     string `json:"custom_id,omitempty"`
	BoardID      int64  `json:"board_id"`
	WorkflowID   int64  `json:"workflow_id,omitempty"`
	ColumnID     int64  `json:"column_id"`
	LaneID       int64  `json:"lane_id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Position     int    `json:"position,omitempty"`
	OwnerUserID  int64  `json:"owner_user_id,omitempty"`
	Priority     string `json:"priority,omitempty"`
	Color        string `json:"color,omitempty"`
	Size         int    `json:"size,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	IsBlocked    bool   `json:"is_blocked,omitempty"`
	BlockReason  string `json:"block_reason,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// Comment is a comment on a card.
type Comment struct {
	CommentID int64  `json:"comment_id"`
	CardID    int64  `json:"card_id"`
	AuthorID  int64  `json:"author_id,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	AllItems     int `json:"all_items"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
}

// CardPage is one page of cards matching a filter.
type CardPage struct {
	Cards      []Card     `json:"cards"`
	Pagination Pagination `json:"pagination"`
}

// CardFilter narrows a card listing. Zero fields are omitted from the query.
type CardFilter struct {
	BoardID     int64
	ColumnID    int64
	LaneID      int64
	OwnerUserID int64
	Page        int
	PerPage     int
}

func (f CardFilter) queryParams() map[string]string {
	q := map[string]string{}
	if f.BoardID > 0 {
		q["board_ids"] = strconv.FormatInt(f.BoardID, 10)
	}
	if f.ColumnID > 0 {
		q["column_ids"] = strconv.FormatInt(f.ColumnID, 10)
	}
	if f.LaneID > 0 {
		q["lane_ids"] = strconv.FormatInt(f.LaneID, 10)
	}
	if f.OwnerUserID > 0 {
		q["owner_user_ids"] = strconv.FormatInt(f.OwnerUserID, 10)
	}
	if f.Page > 0 {
		q["page"] = strconv.Itoa(f.Page)
	}
	if f.PerPage > 0 {
		q["per_page"] = strconv.Itoa(f.PerPage)
	}
	return q
}

// CreateCardRequest creates a new card. ColumnID and Title are required.
type CreateCardRequest struct {
	BoardID     int64  `json:"board_id,omitempty"`
	ColumnID    int64  `json:"column_id"`
	LaneID      int64  `json:"lane_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CustomID    string `json:"custom_id,omitempty"`
	OwnerUserID int64  `json:"owner_user_id,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Color       string `json:"color,omitempty"`
	Size        int    `json:"size,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

// UpdateCardRequest applies a partial card update. Nil fields are untouched.
type UpdateCardRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	CustomID    *string `json:"custom_id,omitempty"`
	OwnerUserID *int64  `json:"owner_user_id,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Color       *string `json:"color,omitempty"`
	Size        *int    `json:"size,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	BlockReason *string `json:"block_reason,omitempty"`
	IsBlocked   *bool   `json:"is_blocked,omitempty"`
}

// MoveCardRequest moves a card to a column, and optionally a lane/position.
type MoveCardRequest struct {
	ColumnID int64 `json:"column_id"`
	LaneID   int64 `json:"lane_id,omitempty"`
	Position *int  `json:"position,omitempty"`
}

// Response envelopes. Every API v2 payload arrives under "data".

type workspacesEnvelope struct {
	Data []Workspace `json:"data"`
}

type boardsEnvelope struct {
	Data []Board `json:"data"`
}

type boardEnvelope struct {
	Data Board `json:"data"`
}

type columnsEnvelope struct {
	Data []Column `json:"data"`
}

type lanesEnvelope struct {
	Data []Lane `json:"data"`
}

type cardsEnvelope struct {
	Data       []Card      `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type cardEnvelope struct {
	Data Card `json:"data"`
}

type commentsEnvelope struct {
	Data []Comment `json:"data"`
}

type commentEnvelope struct {
	Data Comment `json:"data"`
}

// apiErrorBody is the error payload shape returned with 4xx/5xx statuses.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
