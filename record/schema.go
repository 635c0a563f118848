package record

import (
	"reflect"
	"sync"

	"recordforge/field"
	"recordforge/internal/diagnostic"
	"recordforge/internal/resolve"
	"recordforge/internal/synth"
)

// hashAction is the hashing policy selected from the configuration triple
// plus the presence of a user hash override.
type hashAction int

const (
	// hashKeep keeps the user override when present, identity otherwise.
	hashKeep hashAction = iota + 1
	// hashNone makes instances unhashable.
	hashNone
	// hashSynth installs the synthesized field-tuple hash.
	hashSynth
	// hashErr rejects the configuration outright.
	hashErr
)

// hashActions maps (UnsafeHash, Eq, frozen, explicit-override) to the
// hashing policy. Eq without frozen makes mutable-by-equality instances
// unhashable; UnsafeHash forces synthesis but conflicts with an explicit
// override.
var hashActions = map[[4]bool]hashAction{
	{false, false, false, false}: hashKeep,
	{false, false, false, true}:  hashKeep,
	{false, false, true, false}:  hashKeep,
	{false, false, true, true}:   hashKeep,
	{false, true, false, false}:  hashNone,
	{false, true, false, true}:   hashKeep,
	{false, true, true, false}:   hashSynth,
	{false, true, true, true}:    hashKeep,
	{true, false, false, false}:  hashSynth,
	{true, false, false, true}:   hashErr,
	{true, false, true, false}:   hashSynth,
	{true, false, true, true}:    hashErr,
	{true, true, false, false}:   hashSynth,
	{true, true, false, true}:    hashErr,
	{true, true, true, false}:    hashSynth,
	{true, true, true, true}:     hashErr,
}

// schemasByType indexes built schemas by prototype type so embedded
// ancestors can share compact-layout slot positions with descendants.
var schemasByType sync.Map // reflect.Type -> *Schema

// Schema is an augmented record type: the resolved field list of a struct
// prototype plus the behaviors synthesized from it. Schemas are immutable
// after construction except for constructor recompilation via RebuildInit.
type Schema struct {
	typ    reflect.Type
	cfg    Config
	name   string
	frozen bool

	fields []*field.Spec
	byName map[string]*field.Spec
	layout *synth.Layout

	matchArgs []string

	initFn    synth.InitFunc
	reprFn    synth.ReprFunc
	equalFn   synth.EqualFunc
	compareFn synth.CompareFunc
	hashFn    synth.HashFunc
	hashAct   hashAction

	diags *diagnostic.Diagnostics

	mu sync.Mutex // guards initFn recompilation
}

// New derives a schema from a struct prototype. The prototype's fields and
// tags declare the record fields; embedded structs contribute theirs first,
// most-ancestral level first. Construction fails with a *ResolutionError on
// conflicting configuration; non-fatal findings accumulate on Diagnostics.
func New(prototype any, cfg Config) (*Schema, error) {
	typ := reflect.TypeOf(prototype)
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, resolve.NewError(resolve.CodeNotStruct, "",
			"record prototype must be a struct, got %T", prototype)
	}

	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	s := &Schema{
		typ:   typ,
		cfg:   cfg,
		name:  cfg.Name,
		diags: &diagnostic.Diagnostics{},
	}
	if s.name == "" {
		s.name = typ.Name()
	}

	tbl, err := resolve.TableOf(typ, s.diags)
	if err != nil {
		return nil, err
	}

	if !cfg.RecurseBases {
		shallow := *tbl
		shallow.Parents = nil
		tbl = &shallow
	}

	overrides := make(map[string]*field.Spec, len(cfg.Fields))
	for _, ov := range cfg.Fields {
		overrides[ov.Name] = ov
	}

	s.fields, err = resolve.Flatten(tbl, overrides, resolve.Factory(cfg.FieldFactory), !cfg.KwOnly)
	if err != nil {
		return nil, err
	}

	for name := range overrides {
		if !hasField(s.fields, name) {
			return nil, resolve.NewError(resolve.CodeUnknownField, name,
				"field descriptor does not match any declared field")
		}
	}

	s.byName = make(map[string]*field.Spec, len(s.fields))
	for _, f := range s.fields {
		s.byName[f.Name] = f
	}

	if err := s.checkFields(); err != nil {
		return nil, err
	}

	s.frozen = cfg.Frozen
	for _, f := range s.fields {
		if f.Frozen {
			s.frozen = true
			break
		}
	}

	if err := s.compile(); err != nil {
		return nil, err
	}

	s.layout = synth.NewLayout(s.fields, cfg.CompactLayout, s.inheritedSlots(tbl))

	schemasByType.Store(typ, s)
	registry.LoadOrStore(s.name, s)

	return s, nil
}

// MustNew is New, panicking on error. Intended for package-level schema
// variables where a failure is a programming bug.
func MustNew(prototype any, cfg Config) *Schema {
	s, err := New(prototype, cfg)
	if err != nil {
		panic(err)
	}

	return s
}

// checkConfig rejects inconsistent option combinations before resolution.
func checkConfig(cfg Config) error {
	if cfg.Order && !cfg.Eq {
		return resolve.NewError(resolve.CodeOrderRequiresEq, "",
			"ordering generation requires equality generation")
	}

	if cfg.Order && cfg.Less != nil {
		return resolve.NewError(resolve.CodeUserOrdering, "",
			"ordering generation conflicts with a user-defined comparator")
	}

	return nil
}

// checkFields validates per-field constraints that need the merged list.
func (s *Schema) checkFields() error {
	for _, f := range s.fields {
		if f.Category == field.CategoryInitOnly && s.cfg.PostInit == nil {
			return resolve.NewError(resolve.CodeInitOnlyHook, f.Name,
				"init-only field requires a post-construction hook")
		}
	}

	return nil
}

// compile synthesizes the configured behaviors.
func (s *Schema) compile() error {
	var err error

	if s.cfg.Init {
		s.initFn, err = synth.NewInit(s.fields, synth.Config{KwOnly: s.cfg.KwOnly})
		if err != nil {
			return err
		}
	}

	if s.cfg.Repr && s.cfg.Stringer == nil {
		s.reprFn = synth.NewRepr(s.fields)
	}

	if s.cfg.Eq && s.cfg.Equal == nil {
		s.equalFn = synth.NewEqual(s.fields)
	}

	if s.cfg.Order {
		s.compareFn = synth.NewCompare(s.fields)
	}

	explicit := s.cfg.Hash != nil

	act, ok := hashActions[[4]bool{s.cfg.UnsafeHash, s.cfg.Eq, s.frozen, explicit}]
	if !ok || act == hashErr {
		return resolve.NewError(resolve.CodeHashConflict, "",
			"unsafe hashing conflicts with a user-defined hash")
	}

	s.hashAct = act
	if act == hashSynth {
		s.hashFn = synth.NewHash(s.fields)
	}

	if s.cfg.MatchArgs {
		for _, f := range s.fields {
			if f.Init && !f.KwOnly && !s.cfg.KwOnly {
				s.matchArgs = append(s.matchArgs, f.Name)
			}
		}
	}

	return nil
}

// inheritedSlots collects slot positions already assigned by compact
// ancestor schemas so shared fields keep one position down the chain.
func (s *Schema) inheritedSlots(tbl *resolve.Table) map[string]int {
	if !s.cfg.CompactLayout {
		return nil
	}

	inherited := map[string]int{}

	for _, level := range resolve.Chain(tbl) {
		if level.Type == s.typ {
			continue
		}

		cached, ok := schemasByType.Load(level.Type)
		if !ok {
			continue
		}

		parent := cached.(*Schema)
		if !parent.layout.Compact {
			continue
		}

		for name, idx := range parent.layout.Index {
			if _, taken := inherited[name]; !taken {
				inherited[name] = idx
			}
		}
	}

	return inherited
}

// RebuildInit recompiles the constructor after field specs were amended,
// typically with freshly attached validators.
func (s *Schema) RebuildInit() error {
	if !s.cfg.Init {
		return nil
	}

	fn, err := synth.NewInit(s.fields, synth.Config{KwOnly: s.cfg.KwOnly})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.initFn = fn
	s.mu.Unlock()

	return nil
}

// Name returns the registry name of the schema.
func (s *Schema) Name() string { return s.name }

// Type returns the prototype struct type.
func (s *Schema) Type() reflect.Type { return s.typ }

// Frozen reports whether instances reject writes after construction.
func (s *Schema) Frozen() bool { return s.frozen }

// Fields returns the resolved field list in final order. The slice is
// shared; callers must not modify it.
func (s *Schema) Fields() []*field.Spec { return s.fields }

// Field returns the resolved spec of one field.
func (s *Schema) Field(name string) (*field.Spec, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// MatchArgs returns the positional field names recorded for destructuring,
// or nil when match-args generation is off.
func (s *Schema) MatchArgs() []string { return s.matchArgs }

// Diagnostics returns the non-fatal findings collected during resolution.
func (s *Schema) Diagnostics() *diagnostic.Diagnostics { return s.diags }

// Kwargs is the keyword-argument map accepted by constructors.
type Kwargs map[string]any

// New constructs an instance from positional arguments.
func (s *Schema) New(args ...any) (*Instance, error) {
	return s.Apply(args, nil)
}

// NewKw constructs an instance from keyword arguments only.
func (s *Schema) NewKw(kwargs Kwargs) (*Instance, error) {
	return s.Apply(nil, kwargs)
}

// Apply constructs an instance from positional and keyword arguments,
// running the constructor and then the post-construction hook.
func (s *Schema) Apply(args []any, kwargs Kwargs) (*Instance, error) {
	if !s.cfg.Init {
		return nil, ErrInitDisabled
	}

	inst := s.blank()

	s.mu.Lock()
	initFn := s.initFn
	s.mu.Unlock()

	post, err := initFn(inst, args, kwargs)
	if err != nil {
		return nil, err
	}

	if s.cfg.PostInit != nil {
		if err := s.cfg.PostInit(inst, post...); err != nil {
			return nil, err
		}
	}

	inst.sealed = true

	return inst, nil
}

// blank allocates an unsealed instance with the schema's storage layout.
func (s *Schema) blank() *Instance {
	inst := &Instance{schema: s}

	if s.layout.Compact {
		inst.slots = make([]any, s.layout.Size)
		inst.present = make([]bool, s.layout.Size)
	} else {
		inst.attrs = make(map[string]any, len(s.fields))
	}

	return inst
}

func hasField(fields []*field.Spec, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}

	return false
}
