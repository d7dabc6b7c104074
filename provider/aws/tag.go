package aws

// A Tag is a key-value pair attached to a resource.
type Tag struct {
	Key   string `stack:"input,required" validate:"min=1,max=128"`
	Value string `stack:"input" validate:"max=256"`
}

// Tags builds a tag list from alternating keys and values. Panics if an odd
// number of arguments is given.
//
//   Tags("Name", "colors", "Team", "mesh")
func Tags(kv ...string) []Tag {
	if len(kv)%2 != 0 {
		panic("Tags: odd number of arguments")
	}
	tags := make([]Tag, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		tags = append(tags, Tag{Key: kv[i], Value: kv[i+1]})
	}
	return tags
}
