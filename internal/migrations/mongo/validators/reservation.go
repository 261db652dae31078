package validators

import "go.mongodb.org/mongo-driver/bson"

var reservationStatuses = []string{
	"pending",
	"awaiting_payment",
	"confirmed",
	"cancelled",
	"completed",
	"expired",
}

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"listing_id",
			"guest_id",
			"host_id",
			"start_date",
			"end_date",
			"pricing_model",
			"duration_units",
			"unit_price",
			"total_amount",
			"service_fee",
			"host_payout",
			"status",
			"created_date",
			"status_changed_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"guest_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"pricing_model": bson.M{
				"bsonType": "string",
				"enum":     []string{"daily", "hourly"},
			},

			"duration_units": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  720,
			},

			"unit_price": bson.M{
				"bsonType": []string{"double", "decimal"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "decimal"},
				"minimum":  0,
			},

			"service_fee": bson.M{
				"bsonType": []string{"double", "decimal"},
				"minimum":  0,
			},

			"host_payout": bson.M{
				"bsonType": []string{"double", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     reservationStatuses,
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 4000,
			},

			"payment_reference": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"created_date": bson.M{
				"bsonType": "date",
			},

			"status_changed_at": bson.M{
				"bsonType": "date",
			},

			"confirmed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ReservationTransitionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reservation_id", "from", "to", "action", "occurred_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"reservation_id": bson.M{"bsonType": "string", "minLength": 1},
			"from":           bson.M{"bsonType": "string", "enum": reservationStatuses},
			"to":             bson.M{"bsonType": "string", "enum": reservationStatuses},
			"action":         bson.M{"bsonType": "string", "minLength": 1},
			"occurred_at":    bson.M{"bsonType": "date"},
		},
	},
}
