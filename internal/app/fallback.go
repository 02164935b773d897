package app

// Fixed fallback datasets, substituted whenever a provider is unreachable
// or returns a malformed envelope. Each provider has its own batch so
// downstream components always receive a non-empty, well-formed input.

func hostawayFallback() []map[string]any {
	return []map[string]any{
		{
			"id":           7453,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       nil,
			"publicReview": "Shane and family are wonderful! Would definitely host again :)",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 10},
				map[string]any{"category": "communication", "rating": 10},
				map[string]any{"category": "respect_house_rules", "rating": 10},
			},
			"submittedAt": "2020-08-21 22:45:14",
			"guestName":   "Shane Finkelstein",
			"listingName": "2B N1 A - 29 Shoreditch Heights",
		},
		{
			"id":           7454,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       5,
			"publicReview": "Amazing property in a fantastic location. Everything was clean and exactly as described. The host was very responsive and helpful throughout our stay.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 5},
				map[string]any{"category": "communication", "rating": 5},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 4},
			},
			"submittedAt": "2024-08-15 14:30:22",
			"guestName":   "Emily Rodriguez",
			"listingName": "1B S2 C - 15 Camden Lock Apartments",
		},
		{
			"id":           7455,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       4,
			"publicReview": "Great stay overall. The apartment was modern and well-equipped. Only minor issue was noise from the street in the early morning, but that's expected in central London.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 5},
				map[string]any{"category": "communication", "rating": 4},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 4},
			},
			"submittedAt": "2024-08-10 09:15:33",
			"guestName":   "Marcus Thompson",
			"listingName": "Studio E1 B - 42 Canary Wharf Tower",
		},
		{
			"id":           7456,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       3,
			"publicReview": "The location was perfect for our business trip, walking distance to everything we needed. However, the wifi was quite slow and the heating system was difficult to operate.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 4},
				map[string]any{"category": "communication", "rating": 3},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 3},
			},
			"submittedAt": "2024-08-05 16:45:12",
			"guestName":   "Sarah Chen",
			"listingName": "2B N1 A - 29 Shoreditch Heights",
		},
		{
			"id":           7457,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       5,
			"publicReview": "Absolutely phenomenal experience! The property exceeded all expectations. Impeccably clean, beautifully designed, and the host went above and beyond to ensure our comfort.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 5},
				map[string]any{"category": "communication", "rating": 5},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 5},
			},
			"submittedAt": "2024-08-20 11:20:45",
			"guestName":   "David Park",
			"listingName": "3B W1 D - 8 Kensington Gardens Mansion",
		},
		{
			"id":           7458,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       2,
			"publicReview": "Unfortunately, our stay did not meet expectations. The property was not as clean as advertised and several amenities mentioned in the listing were not working.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 2},
				map[string]any{"category": "communication", "rating": 2},
				map[string]any{"category": "location", "rating": 4},
				map[string]any{"category": "value", "rating": 2},
			},
			"submittedAt": "2024-07-28 13:35:18",
			"guestName":   "Jennifer Walsh",
			"listingName": "1B S2 C - 15 Camden Lock Apartments",
		},
		{
			"id":           7459,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       4,
			"publicReview": "Lovely property with great character. The exposed brick and high ceilings made it feel very special. Check-in was seamless and the location is unbeatable for exploring London.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 4},
				map[string]any{"category": "communication", "rating": 5},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 4},
			},
			"submittedAt": "2024-08-12 19:22:56",
			"guestName":   "Alessandro Rossi",
			"listingName": "Studio E1 B - 42 Canary Wharf Tower",
		},
		{
			"id":           7460,
			"type":         "guest-to-host",
			"status":       "published",
			"rating":       5,
			"publicReview": "Perfect for our weekend getaway! The property was spotless, modern, and had everything we needed. Great local restaurants nearby and easy access to public transport.",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": 5},
				map[string]any{"category": "communication", "rating": 4},
				map[string]any{"category": "location", "rating": 5},
				map[string]any{"category": "value", "rating": 5},
			},
			"submittedAt": "2024-08-18 08:45:30",
			"guestName":   "Priya Sharma",
			"listingName": "2B N1 A - 29 Shoreditch Heights",
		},
	}
}

// googleFallback is keyed to nothing property-specific: the same three
// reviews stand in for any mapped place. Timestamps are fixed so the
// fallback is deterministic.
func googleFallback() []map[string]any {
	return []map[string]any{
		{
			"author_name":               "Sarah Wilson",
			"rating":                    5,
			"text":                      "Excellent property management! The apartment was spotless and the check-in process was seamless. Location is perfect for exploring London.",
			"time":                      1724198400,
			"relative_time_description": "a week ago",
		},
		{
			"author_name":               "Michael Chen",
			"rating":                    4,
			"text":                      "Great stay overall. The property was well-maintained and the host was responsive. Only minor issue was the WiFi speed could be better.",
			"time":                      1723593600,
			"relative_time_description": "2 weeks ago",
		},
		{
			"author_name":               "Lisa Thompson",
			"rating":                    5,
			"text":                      "Amazing experience! The apartment exceeded our expectations. Perfect for business travel with excellent transport links.",
			"time":                      1722988800,
			"relative_time_description": "3 weeks ago",
		},
	}
}
