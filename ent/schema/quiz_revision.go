package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizRevision captures a saved quiz document so earlier versions can be
// listed and restored.
type QuizRevision struct {
	ent.Schema
}

func (QuizRevision) Fields() []ent.Field {
	return []ent.Field{
		field.String("quiz_id").
			NotEmpty(),
		field.Int64("sequence").
			Comment("Global sequence number at the time of the revision"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the revision was saved"),
		field.JSON("document", map[string]any{}).
			Comment("Full quiz document as JSON"),
	}
}

func (QuizRevision) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("quiz_id", "sequence"),
		index.Fields("timestamp"),
	}
}

func (QuizRevision) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("quiz", Quiz.Type).
			Ref("revisions").
			Field("quiz_id").
			Unique().
			Required(),
	}
}
