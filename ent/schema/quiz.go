package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Quiz holds the latest saved definition of a quiz.
type Quiz struct {
	ent.Schema
}

func (Quiz) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("Opaque client-generated quiz id"),
		field.String("title").
			Default(""),
		field.Int("step_count").
			Default(0),
		field.JSON("document", map[string]any{}).
			Comment("Canonical JSON quiz document"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now),
	}
}

func (Quiz) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("updated_at"),
	}
}

func (Quiz) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("sessions", NavigationSession.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("revisions", QuizRevision.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}
