package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PageVisit struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"_id"`
	User      *bson.ObjectID `bson:"user"          json:"user"`
	IP        string         `bson:"ip"            json:"ip"`
	Page      string         `bson:"page"          json:"page"`
	Duration  int64          `bson:"duration"      json:"duration"` // seconds
	UserAgent string         `bson:"userAgent"     json:"userAgent"`
	CreatedAt time.Time      `bson:"createdAt"     json:"createdAt"`
}

type PageCount struct {
	Page  string `bson:"page"  json:"page"`
	Count int64  `bson:"count" json:"count"`
}

type UserActivity struct {
	ID                bson.ObjectID `bson:"_id,omitempty"     json:"_id"`
	User              bson.ObjectID `bson:"user"              json:"user"`
	NumberOfVisits    int64         `bson:"numberOfVisits"    json:"numberOfVisits"`
	TotalTimeSpent    int64         `bson:"totalTimeSpent"    json:"totalTimeSpent"`
	LastVisit         *time.Time    `bson:"lastVisit"         json:"lastVisit"`
	LastVisitDuration int64         `bson:"lastVisitDuration" json:"lastVisitDuration"`
	LastVisitedPage   string        `bson:"lastVisitedPage"   json:"lastVisitedPage"`
	Devices           []string      `bson:"devices"           json:"devices"`
	PagesVisited      []PageCount   `bson:"pagesVisited"      json:"pagesVisited"`
}

// CountBucket is one row of a $group/$sum aggregation.
type CountBucket struct {
	Key   string `bson:"_id"   json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// VisitorCount is a signed-in user with the number of their page visits.
type VisitorCount struct {
	User   bson.ObjectID `bson:"_id"    json:"user"`
	Visits int64         `bson:"visits" json:"visits"`
}
