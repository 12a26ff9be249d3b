package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"business_id",
			"user_id",
			"business_type",
			"booking_details",
			"amount",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"business_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"business_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"hotel",
					"restaurant",
					"cafe",
					"cab",
					"shopping",
				},
			},

			"booking_details": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "string",
				},
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"payment_option": bson.M{
				"bsonType": "string",
				"enum": []string{
					"advance",
					"full",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"pending_approval",
					"confirmed",
					"declined",
					"cancelled",
					"completed",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"pending_verification",
					"paid",
					"failed",
				},
			},

			"transaction_id": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"room_number": bson.M{
				"bsonType":  "string",
				"maxLength": 20,
			},

			"special_requests": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"payment_reviewed_at": bson.M{
				"bsonType": "date",
			},

			"payment_reviewed_by": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
