package api

import (
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"

	"github.com/gin-gonic/gin"
)

// GetWeeklyBulletin renders the public weekly bulletin for a neighborhood.
// GET /api/public/bulletins/:neighborhood_id
func GetWeeklyBulletin(c *gin.Context) {
	bulletin, err := transparencyService().Bulletin(c.Param("neighborhood_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, bulletin)
}

// GetNeighborhoodRanking renders the public neighborhood ranking.
// GET /api/public/ranking
func GetNeighborhoodRanking(c *gin.Context) {
	ranks, err := transparencyService().Ranking()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, ranks)
}

// ListActiveAnchors lists active anchor commitments publicly.
// GET /api/public/anchors?neighborhood_id=...
func ListActiveAnchors(c *gin.Context) {
	rows, err := transparencyService().ActiveAnchors(c.Query("neighborhood_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}

// ListPublishedPosts lists published educational posts.
// GET /api/public/learn/posts?neighborhood_id=...
func ListPublishedPosts(c *gin.Context) {
	rows, err := transparencyService().PublishedPosts(c.Query("neighborhood_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessJSON(c, rows)
}
