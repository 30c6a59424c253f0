// Package tmdb provides a client for The Movie Database API.
package tmdb

import (
	"strconv"
	"time"
)

// Movie represents TMDB movie metadata.
type Movie struct {
	ID           int64   `json:"id"`
	IMDBID       string  `json:"imdb_id,omitempty"` // e.g., "tt0133093"
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"` // "2024-03-01"
	PosterPath   string  `json:"poster_path"`  // "/abc123.jpg"
	VoteAverage  float64 `json:"vote_average"`
	Runtime      int     `json:"runtime"` // minutes
	Genres       []Genre `json:"genres"`
}

// Series represents TMDB TV series metadata.
type Series struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       string   `json:"poster_path"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	NumberOfEpisodes int      `json:"number_of_episodes"`
	Seasons          []SeasonSummary `json:"seasons"`
}

// SeasonSummary is the per-season listing embedded in a Series response.
type SeasonSummary struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
}

// Season represents one season with its full episode list.
type Season struct {
	SeasonNumber int             `json:"season_number"`
	Name         string          `json:"name"`
	Episodes     []SeasonEpisode `json:"episodes"`
}

// SeasonEpisode is one episode within a season, with its air date.
type SeasonEpisode struct {
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
	Name          string `json:"name"`
	AirDate       string `json:"air_date"` // "2008-01-20", may be empty
}

// AirTime parses the episode air date. Returns nil when unknown.
func (e *SeasonEpisode) AirTime() *time.Time {
	if e.AirDate == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", e.AirDate, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// Genre represents a movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Year extracts the year from ReleaseDate.
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// Year extracts the year from FirstAirDate.
func (s *Series) Year() int {
	return yearOf(s.FirstAirDate)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL returns the full poster image URL.
// Size can be: w92, w154, w185, w342, w500, w780, original
func PosterURL(posterPath, size string) string {
	if posterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + posterPath
}
