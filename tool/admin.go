package tool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/boardops/businessmap"
)

func cacheStatsTool() mcp.Tool {
	return mcp.NewTool("cache_stats",
		mcp.WithDescription("Report response cache counters for an instance: hits, misses, evictions, entries, hit rate."),
		withInstance(),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (s *Server) cacheStats(_ context.Context, c *businessmap.Client, _ mcp.CallToolRequest) (any, error) {
	stats := c.CacheStats()
	return map[string]any{
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": stats.Evictions,
		"entries":   stats.Entries,
		"hit_rate":  stats.HitRate,
	}, nil
}

func clearCacheTool() mcp.Tool {
	return mcp.NewTool("clear_cache",
		mcp.WithDescription("Drop every cached response for an instance. The next reads go upstream."),
		withInstance(),
	)
}

func (s *Server) clearCache(_ context.Context, c *businessmap.Client, _ mcp.CallToolRequest) (any, error) {
	c.ClearCache()
	return map[string]any{"cleared": true, "instance": c.Instance()}, nil
}
