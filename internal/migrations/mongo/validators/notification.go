package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "type", "title", "message", "read", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"user_id":    bson.M{"bsonType": "string", "minLength": 1},
			"type":       bson.M{"bsonType": "string", "minLength": 1},
			"title":      bson.M{"bsonType": "string", "maxLength": 200},
			"message":    bson.M{"bsonType": "string", "maxLength": 2000},
			"action_url": bson.M{"bsonType": "string"},
			"read":       bson.M{"bsonType": "bool"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
