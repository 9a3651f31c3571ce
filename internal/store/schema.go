package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/stepquiz/ent/schema"
)

// Table names.
const (
	quizzesTable   = "quizzes"
	sessionsTable  = "navigation_sessions"
	eventsTable    = "navigation_events"
	revisionsTable = "quiz_revisions"
)

// entities lists the ent schemas in migration order.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{quizzesTable, entschema.Quiz{}},
	{sessionsTable, entschema.NavigationSession{}},
	{eventsTable, entschema.NavigationEvent{}},
	{revisionsTable, entschema.QuizRevision{}},
}

// Tables builds the migration tables from the ent schemas in ent/schema.
// Foreign keys come from inverse edges bound to a field; the delete action is
// read from the entsql annotation on the owning edge.
func Tables() ([]*schema.Table, error) {
	byType := make(map[string]*schema.Table, len(entities))
	all := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return nil, err
		}
		byType[reflect.TypeOf(e.schema).Name()] = t
		all = append(all, t)
	}

	for _, e := range entities {
		t := byType[reflect.TypeOf(e.schema).Name()]
		for _, ed := range e.schema.Edges() {
			d := ed.Descriptor()
			if !d.Inverse || d.Field == "" {
				continue
			}
			ref, ok := byType[d.Type]
			if !ok {
				return nil, fmt.Errorf("edge %s.%s: unknown type %s", t.Name, d.Name, d.Type)
			}
			fk, err := foreignKey(t, d, ref, owner(entityOf(d.Type), d.RefName))
			if err != nil {
				return nil, err
			}
			t.AddForeignKey(fk)
		}
	}
	return all, nil
}

// tableFor builds a migration table from an ent schema's fields, mixins and
// indexes. Schemas without an explicit "id" field get an auto-increment key.
func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", name, d.Name, d.Err)
		}
		t.AddColumn(&schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
			Comment:  d.Comment,
		})
	}

	id, ok := t.Column("id")
	if !ok {
		id = &schema.Column{Name: "id", Type: field.TypeInt64, Increment: true}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
	}
	id.Unique = true
	t.PrimaryKey = []*schema.Column{id}

	for _, idx := range indexes {
		d := idx.Descriptor()
		ix := &schema.Index{Name: d.StorageKey, Unique: d.Unique}
		if ix.Name == "" {
			ix.Name = name + "_" + strings.Join(d.Fields, "_")
		}
		for _, f := range d.Fields {
			c, ok := t.Column(f)
			if !ok {
				return nil, fmt.Errorf("index %s: unknown column %s.%s", ix.Name, name, f)
			}
			ix.Columns = append(ix.Columns, c)
		}
		t.Indexes = append(t.Indexes, ix)
	}
	return t, nil
}

// foreignKey links the edge field of t to ref's primary key.
func foreignKey(t *schema.Table, d *edge.Descriptor, ref *schema.Table, from *edge.Descriptor) (*schema.ForeignKey, error) {
	c, ok := t.Column(d.Field)
	if !ok {
		return nil, fmt.Errorf("edge %s.%s: unknown field %s", t.Name, d.Name, d.Field)
	}
	if from == nil {
		return nil, fmt.Errorf("edge %s.%s: %s has no edge %q", t.Name, d.Name, d.Type, d.RefName)
	}
	fk := &schema.ForeignKey{
		Symbol:     fmt.Sprintf("%s_%s_%s", t.Name, ref.Name, from.Name),
		Columns:    []*schema.Column{c},
		RefTable:   ref,
		RefColumns: []*schema.Column{ref.PrimaryKey[0]},
	}
	for _, a := range from.Annotations {
		if ant, ok := a.(*entsql.Annotation); ok && ant.OnDelete != "" {
			fk.OnDelete = schema.ReferenceOption(ant.OnDelete)
		}
	}
	return fk, nil
}

func entityOf(typ string) ent.Interface {
	for _, e := range entities {
		if reflect.TypeOf(e.schema).Name() == typ {
			return e.schema
		}
	}
	return nil
}

// owner returns the assoc edge named name on s.
func owner(s ent.Interface, name string) *edge.Descriptor {
	if s == nil {
		return nil
	}
	for _, ed := range s.Edges() {
		if d := ed.Descriptor(); !d.Inverse && d.Name == name {
			return d
		}
	}
	return nil
}
