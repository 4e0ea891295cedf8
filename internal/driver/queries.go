package driver

// Timestamps are stored as Unix milliseconds so ordering works the same on
// Memgraph and Neo4j.

var IndexQueries = []string{
	"CREATE INDEX ON :CorpusItem(id);",
	"CREATE INDEX ON :CorpusItem(created_at);",
	"CREATE INDEX ON :IdeaRegistration(id);",
	"CREATE INDEX ON :IdeaRegistration(author_id);",
}

const (
	SaveCorpusItemQuery = `
		MERGE (n:CorpusItem {id: $id})
		SET n.kind = $kind,
			n.title = $title,
			n.summary = $summary,
			n.author = $author,
			n.category = $category,
			n.created_at = $created_at
		RETURN n.id AS id
	`

	RecentCorpusQuery = `
		MATCH (n:CorpusItem)
		RETURN n.id AS id, n.kind AS kind, n.title AS title, n.summary AS summary,
			n.author AS author, n.category AS category, n.created_at AS created_at
		ORDER BY created_at DESC, id ASC
		LIMIT $limit
	`

	SaveRegistrationQuery = `
		CREATE (r:IdeaRegistration {id: $id})
		SET r.title = $title,
			r.concept = $concept,
			r.author_id = $author_id,
			r.author_name = $author_name,
			r.similarity_score = $similarity_score,
			r.classification = $classification,
			r.lock_days = $lock_days,
			r.created_at = $created_at,
			r.expires_at = $expires_at
		RETURN r.id AS id
	`

	registrationFields = `
		RETURN r.id AS id, r.title AS title, r.concept AS concept,
			r.author_id AS author_id, r.author_name AS author_name,
			r.similarity_score AS similarity_score, r.classification AS classification,
			r.lock_days AS lock_days, r.created_at AS created_at, r.expires_at AS expires_at
	`

	GetRegistrationQuery = `
		MATCH (r:IdeaRegistration {id: $id})
	` + registrationFields

	ListRegistrationsByAuthorQuery = `
		MATCH (r:IdeaRegistration {author_id: $author_id})
	` + registrationFields + `
		ORDER BY created_at DESC, id ASC
	`
)
