// Package seed loads the demo collection points.
package seed

import (
	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/log"
	"ecocoleta/internal/pkg/point"
	"ecocoleta/internal/pkg/store"

	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Demo is the fixed set of points loaded at startup.
var Demo = []point.Fields{
	{
		Name:       "Central Point - Paper and Plastic",
		Address:    "Central Square, 100",
		Categories: category.New("paper", "plastic"),
		Contact:    "contact@city.org",
	},
	{
		Name:       "RecycleMore - Glass and Metal",
		Address:    "Flower Street, 45",
		Categories: category.New("glass", "metal"),
		Contact:    "recyclemore@example.com",
	},
	{
		Name:       "EcoPoint Upper District - All",
		Address:    "Brazil Avenue, 777",
		Categories: category.New("paper", "plastic", "glass", "metal"),
		Contact:    "ecopoint@upperdistrict.com",
	},
}

// Load adds points to the store directly, without any authorization check.
// It is meant to run once, before the server accepts connections.
func Load(s store.Store, points []point.Fields) []int {
	ids := make([]int, 0, len(points))
	for _, f := range points {
		id := s.Add(f.Name, f.Address, f.Categories, f.Contact)
		ids = append(ids, id)
		logger.WithFields(log.PointToFields(point.CollectionPoint{ID: id, Fields: f})).Debug("seeded point")
	}
	logger.WithField("count", len(ids)).Info("demo points created")
	return ids
}
