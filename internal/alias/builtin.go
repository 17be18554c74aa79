package alias

// Builtin holds the general-purpose aliases for common field names.
var Builtin = map[string][]string{
	// Identity and primary keys
	"id": {
		"identifier", "key", "pk", "primary_key", "uid", "uuid", "guid", "reference",
		"ref", "item_id", "record_id", "unique_id", "entity_id", "object_id", "row_id",
		"index", "idx", "serial", "sequence", "number", "num",
	},

	// Names and titles
	"name": {
		"title", "label", "description", "heading", "header", "caption",
		"full_name", "display_name", "username", "user_name", "screen_name",
		"first_name", "last_name", "surname", "family_name", "given_name",
		"fname", "lname", "nickname", "alias", "handle", "moniker",
	},

	// Text content
	"text": {
		"question", "q", "prompt", "query", "problem", "content", "body", "message",
		"description", "details", "summary", "abstract", "excerpt", "snippet", "passage",
		"paragraph", "statement", "input", "output", "response",
		"comment", "note", "remark", "observation", "feedback", "review",
		"article", "post", "blog", "essay", "story", "narrative", "copy",
	},

	// Categories and classifications
	"category": {
		"cat", "type", "kind", "genre", "topic", "subject",
		"classification", "class", "group", "section", "department", "division",
		"tag", "tags", "labels", "theme", "area", "domain", "field",
		"discipline", "specialty", "branch", "segment", "cluster", "bucket",
		"taxonomy", "hierarchy", "subcategory", "sub_category",
	},

	// Difficulty and complexity
	"difficulty": {
		"level", "hard", "complexity", "diff", "grade",
		"skill_level", "proficiency", "expertise", "competency", "tier",
		"rank", "rating", "intensity", "challenge", "hardness", "ease",
	},

	// Scores and ratings
	"score": {
		"points", "rating", "value", "mark", "grade", "result",
		"evaluation", "assessment", "performance", "achievement", "outcome",
		"total", "sum", "tally", "percentage", "percent",
		"rank", "ranking", "position", "place", "standing",
	},

	// Answers and solutions
	"answer": {
		"correct_answer", "solution", "correct", "right_answer",
		"reply", "resolution", "correct_option", "right_option", "true_answer", "actual",
	},

	// Multiple choice options
	"answers": {
		"options", "choices", "alternatives", "selections",
		"possibilities", "variants", "candidates", "multiple_choice", "mcq",
	},

	// Dates and times
	"date": {
		"created", "timestamp", "time", "datetime", "created_at",
		"updated_at", "modified", "last_modified", "published", "published_at",
		"start_date", "end_date", "due_date", "expiry", "expiration",
		"birth_date", "dob", "date_of_birth", "created_on", "updated_on",
		"issued", "effective_date",
	},

	// Financial values
	"price": {
		"cost", "amount", "fee", "charge", "rate",
		"salary", "wage", "income", "revenue", "expense",
		"budget", "subtotal", "premium", "balance", "payment", "quote", "estimate",
	},

	// Contact information
	"email": {
		"mail", "e_mail", "email_address", "mail_address",
		"electronic_mail", "contact_email", "work_email", "personal_email",
		"business_email", "primary_email", "secondary_email",
	},
	"phone": {
		"telephone", "mobile", "cell", "phone_number", "tel",
		"mobile_number", "cell_number", "landline", "home_phone", "work_phone",
		"business_phone", "contact_number", "primary_phone", "secondary_phone",
		"cellphone", "smartphone", "office_phone",
	},
}

// Ecommerce holds aliases for order and product exports.
var Ecommerce = map[string][]string{
	"product_name": {"product", "item", "product_title"},
	"sku":          {"product_code", "item_code", "article_number"},
	"quantity":     {"qty", "amount", "count", "units"},
	"customer_id":  {"customer", "buyer", "client_id"},
}

// Quiz holds aliases for question banks.
var Quiz = map[string][]string{
	"question_text":  {"question", "prompt", "problem"},
	"correct_answer": {"answer", "solution", "key"},
	"options":        {"choices", "alternatives", "mcq_options"},
}

// SocialMedia holds aliases for social post exports.
var SocialMedia = map[string][]string{
	"post_content": {"content", "text", "message", "post"},
	"likes_count":  {"likes", "hearts", "reactions"},
	"share_count":  {"shares", "retweets", "reposts"},
}
