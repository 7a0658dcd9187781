package playlists

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/store"
	"github.com/vlatan/reels-mixer/internal/utils"
)

type demoReel struct {
	title string
	url   string
}

type demoPlaylist struct {
	name        string
	description string
	logoURL     string
	reels       []int
	tags        []int
}

var demoReels = []demoReel{
	{"Travel Highlights", "https://www.instagram.com/travelbucketlist/reel/CpTrb1jAhKZ/"},
	{"Cooking Tutorial", "https://www.tiktok.com/@foodie_delights/video/7123456789012345678"},
	{"Workout Routine", "https://www.instagram.com/fitness_guru/reel/CqW3r5tgHmN/"},
	{"Shovel Man Photo", "https://www.tiktok.com/@shovel._.man/photo/7268347701522189600"},
	{"Tech Review", "https://www.youtube.com/watch?v=abcDEF123456"},
	{"Comedy Skit", "https://www.facebook.com/watch/?v=9876543210123456"},
	{"Fashion Tips", "https://www.instagram.com/style_icon/reel/CrX4s6thInO/"},
	{"Gaming Highlights", "https://www.tiktok.com/@gamer_pro/video/7345678901234567890"},
	{"News Update", "https://twitter.com/news_channel/status/1234567890123456789"},
	{"DIY Project", "https://www.youtube.com/watch?v=ghiJKL987654"},
}

var demoTags = []tagRequest{
	{"Entertainment", "purple"},
	{"Education", "blue"},
	{"Fitness", "green"},
	{"Food", "yellow"},
	{"Travel", "pink"},
}

// Listed oldest first, the stores return them newest first
var demoPlaylists = []demoPlaylist{
	{
		name:        "Lifestyle Inspiration",
		description: "Videos about **fitness**, food, and fashion",
		logoURL:     "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=500",
		reels:       []int{1, 2, 6},
		tags:        []int{2, 3},
	},
	{
		name:        "Test Playlist",
		description: "Testing different platform embeds",
		logoURL:     "https://images.unsplash.com/photo-1518770660439-4636190af475?w=500",
		reels:       []int{3, 0, 4, 5},
		tags:        []int{0, 1},
	},
	{
		name:        "Learning Collection",
		description: "Educational videos to expand your knowledge",
		logoURL:     "https://images.unsplash.com/photo-1503676260728-1c00da094a0b?w=500",
		reels:       []int{2, 4, 9},
		tags:        []int{1},
	},
	{
		name:        "Entertainment Mix",
		description: "A collection of entertaining videos from various platforms",
		logoURL:     "https://images.unsplash.com/photo-1603739903239-8b6e64c3b185?w=500",
		reels:       []int{0, 3, 5, 7},
		tags:        []int{0},
	},
}

// Fill an empty library with sample playlists
func (s *Service) DemoHandler(w http.ResponseWriter, r *http.Request) {

	visitor, st := s.storeFor(r)
	ownerID := visitor.OwnerID()

	existing, err := st.ListPlaylists(r.Context(), ownerID)
	if err != nil {
		fail(w, r, err)
		return
	}

	if len(existing) > 0 {
		utils.JSONError(w, r, http.StatusConflict, "Sample playlists can only be added to an empty library")
		return
	}

	if err := seedDemo(r.Context(), st, ownerID); err != nil {
		fail(w, r, err)
		return
	}

	playlists, err := st.ListPlaylists(r.Context(), ownerID)
	if err != nil {
		fail(w, r, err)
		return
	}

	for i := range playlists {
		present(&playlists[i])
	}

	utils.WriteJSON(w, r, http.StatusCreated, playlists)
}

func seedDemo(ctx context.Context, st store.Store, ownerID string) error {

	// Reuse the visitor's tags with the same names
	tags, err := st.ListTags(ctx, ownerID)
	if err != nil {
		return err
	}

	tagIDs := make([]string, len(demoTags))
	for i, dt := range demoTags {
		for _, t := range tags {
			if strings.EqualFold(t.Name, dt.Name) {
				tagIDs[i] = t.ID
			}
		}

		if tagIDs[i] != "" {
			continue
		}

		tag, err := newTag(dt.Name, dt.Color)
		if err != nil {
			return err
		}

		if err := st.CreateTag(ctx, ownerID, tag); err != nil {
			return fmt.Errorf("failed to create tag '%s'; %w", dt.Name, err)
		}
		tagIDs[i] = tag.ID
	}

	for i, dp := range demoPlaylists {

		// Keep the creation order visible
		now := time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		playlist := models.Playlist{
			ID:          uuid.NewString(),
			Name:        dp.name,
			Slug:        makeSlug(dp.name),
			Description: dp.description,
			LogoURL:     dp.logoURL,
			Reels:       make([]models.Reel, 0, len(dp.reels)),
			Tags:        []models.Tag{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		for _, j := range dp.reels {
			reel, err := models.NewReel(demoReels[j].url, len(demoReels[j].url))
			if err != nil {
				return fmt.Errorf("failed to classify sample reel '%s'; %w", demoReels[j].url, err)
			}
			reel.Title = demoReels[j].title
			reel.AddedAt = now
			playlist.Reels = append(playlist.Reels, *reel)
		}
		playlist.Reindex()

		if err := st.CreatePlaylist(ctx, ownerID, &playlist); err != nil {
			return fmt.Errorf("failed to create playlist '%s'; %w", dp.name, err)
		}

		ids := make([]string, 0, len(dp.tags))
		for _, j := range dp.tags {
			ids = append(ids, tagIDs[j])
		}

		if err := st.SetPlaylistTags(ctx, ownerID, playlist.ID, ids); err != nil {
			return fmt.Errorf("failed to tag playlist '%s'; %w", dp.name, err)
		}
	}

	return nil
}
