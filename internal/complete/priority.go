// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package complete

import (
	"strings"

	"github.com/meshintel/gearwatch/pkg/types"
)

// Scorer ranks a product for the final snapshot; higher sorts first.
type Scorer func(*types.CandidateProduct) float64

// brandWeights orders first-tier brands ahead of budget ones. Unknown
// brands score zero and rank purely on article depth.
var brandWeights = map[string]float64{
	"罗技": 100, "logitech": 100,
	"雷蛇": 95, "razer": 95,
	"rog": 90, "华硕": 85,
	"赛睿": 85, "steelseries": 85,
	"海盗船": 80, "corsair": 80,
	"卓威": 80, "zowie": 80,
	"vgn": 70, "vek": 70,
	"atk": 65, "狼蛛": 60,
	"雷柏": 55, "rapoo": 55,
	"英菲克": 50,
	"魔炼": 45,
	"黑科": 40,
}

const (
	lengthScoreCap  = 30.0
	lengthPerPoint  = 500.0
	imageScoreCap   = 10.0
	imagePointValue = 2.0
)

// DefaultScorer combines brand weight, evidence length (one point per
// 500 runes of evidence, capped) and image count (two points per image,
// capped).
func DefaultScorer(p *types.CandidateProduct) float64 {
	score := 0.0

	name := strings.ToLower(p.Name)
	brand := 0.0
	for b, w := range brandWeights {
		if strings.Contains(name, b) && w > brand {
			brand = w
		}
	}
	score += brand

	if p.Cluster != nil {
		length := float64(len([]rune(p.Cluster.Evidence))) / lengthPerPoint
		if length > lengthScoreCap {
			length = lengthScoreCap
		}
		score += length

		images := float64(len(p.Cluster.Images)) * imagePointValue
		if images > imageScoreCap {
			images = imageScoreCap
		}
		score += images
	}

	return score
}
