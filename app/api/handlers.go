package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reelring/reelring/app/database"
	"github.com/reelring/reelring/app/feed"
	"github.com/reelring/reelring/app/metrics"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

// FeedBuilder produces one feed page per request.
type FeedBuilder interface {
	BuildPage(ctx context.Context, req feed.Request) (*feed.Page, error)
}

// EnrichmentRefresher forces a live catalog re-resolve for one subject.
type EnrichmentRefresher interface {
	Resolve(ctx context.Context, mediaKind, subjectID, region string, force bool) feed.Enrichment
}

type Handler struct {
	builder    FeedBuilder
	refresher  EnrichmentRefresher
	posts      database.PostRepository
	membership database.MembershipRepository
	region     string
}

func NewHandler(builder FeedBuilder, refresher EnrichmentRefresher,
	posts database.PostRepository, membership database.MembershipRepository, region string) *Handler {
	return &Handler{
		builder:    builder,
		refresher:  refresher,
		posts:      posts,
		membership: membership,
		region:     region,
	}
}

// GetFeed serves GET /feed. The viewer is the authenticated subject,
// carried in the X-User-ID header by the auth layer in front of this
// service. Cursor malformation is absorbed downstream; every other input
// error is a 400 with field detail.
func (h *Handler) GetFeed(c *gin.Context) {
	start := time.Now()

	viewerID, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		metrics.FeedRequests.WithLabelValues("", metrics.OutcomeBadInput).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "field": "X-User-ID"})
		return
	}

	limitParam := c.DefaultQuery("limit", strconv.Itoa(defaultLimit))
	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		metrics.FeedRequests.WithLabelValues("", metrics.OutcomeBadInput).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "field": "limit"})
		return
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sort := c.DefaultQuery("sort", feed.SortSmart)
	if sort != feed.SortSmart && sort != feed.SortLatest {
		metrics.FeedRequests.WithLabelValues(sort, metrics.OutcomeBadInput).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "field": "sort"})
		return
	}

	page, err := h.builder.BuildPage(c.Request.Context(), feed.Request{
		ViewerID: viewerID.String(),
		Limit:    limit,
		Cursor:   c.Query("cursor"),
		Sort:     sort,
	})
	if err != nil {
		// Soft-fail contract: the feed never surfaces a hard failure.
		slog.Error("Feed build failed", "viewer", viewerID.String(), "sort", sort, "error", err)
		metrics.FeedRequests.WithLabelValues(sort, metrics.OutcomeDegraded).Inc()
		c.JSON(http.StatusOK, FeedResponse{Items: []FeedRow{}, Error: "internal_error"})
		return
	}

	outcome := metrics.OutcomeOK
	if len(page.Items) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.FeedRequests.WithLabelValues(sort, outcome).Inc()
	metrics.FeedLatency.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, toFeedResponse(page))
}

func toFeedResponse(page *feed.Page) FeedResponse {
	items := make([]FeedRow, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, FeedRow{
			SubjectID:         item.Row.SubjectID,
			MediaKind:         item.Row.MediaKind,
			Title:             item.Enrichment.Title,
			Year:              item.Enrichment.Year,
			PosterURL:         item.Enrichment.PosterURL,
			AuthorID:          item.Row.AuthorID,
			AuthorName:        item.Row.AuthorName,
			Circles:           item.CircleNames,
			Rating:            item.Row.Rating,
			Comment:           item.Row.Comment,
			Providers:         item.Enrichment.Providers,
			PlayableProviders: item.Playable,
			LikeCount:         item.Engagement.Likes,
			CommentCount:      item.Engagement.Comments,
			ViewerLiked:       item.Engagement.ViewerLiked,
			CreatedAt:         item.Row.CreatedAt,
		})
	}
	return FeedResponse{Items: items, NextCursor: page.NextCursor}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if postCount, err := h.posts.GetPostCount(c.Request.Context()); err == nil {
		health["posts"] = postCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{}

	if count, err := h.membership.GetUserCount(c.Request.Context()); err == nil {
		stats["users"] = count
	}
	if count, err := h.membership.GetCircleCount(c.Request.Context()); err == nil {
		stats["circles"] = count
	}
	if count, err := h.posts.GetPostCount(c.Request.Context()); err == nil {
		stats["posts"] = count
	}

	c.JSON(http.StatusOK, stats)
}

// APIRefreshEnrichment serves POST /api/enrichment/refresh. It forces a
// live catalog re-resolve for one subject, bypassing the freshness check.
func (h *Handler) APIRefreshEnrichment(c *gin.Context) {
	mediaKind := c.Query("kind")
	if mediaKind != "movie" && mediaKind != "series" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "field": "kind"})
		return
	}

	subjectID := c.Query("subject")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "field": "subject"})
		return
	}

	region := c.Query("region")
	if region == "" {
		region = h.region
	}

	enrichment := h.refresher.Resolve(c.Request.Context(), mediaKind, subjectID, region, true)

	c.JSON(http.StatusOK, gin.H{
		"subject_id": subjectID,
		"media_kind": mediaKind,
		"region":     region,
		"title":      enrichment.Title,
		"year":       enrichment.Year,
		"poster_url": enrichment.PosterURL,
		"providers":  enrichment.Providers,
	})
}
