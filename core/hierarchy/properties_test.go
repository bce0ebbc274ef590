package hierarchy

import (
	"testing"

	"github.com/FocuswithJustin/hierarchizer/core/errors"
	"github.com/FocuswithJustin/hierarchizer/core/props"
)

func TestParsePropertiesDefaults(t *testing.T) {
	p, err := ParseProperties(props.Bag{KeyHierarchyNames: "sentence, np"})
	if err != nil {
		t.Fatalf("ParseProperties failed: %v", err)
	}
	if len(p.Names) != 2 || p.Names[0] != "sentence" || p.Names[1] != "np" {
		t.Errorf("Names = %q, want [sentence np]", p.Names)
	}
	if !p.DeleteSpans {
		t.Error("DeleteSpans = false, want true")
	}
	if p.StructAnnoName != "cat" {
		t.Errorf("StructAnnoName = %q, want cat", p.StructAnnoName)
	}
	if p.EdgeType != "edge" {
		t.Errorf("EdgeType = %q, want edge", p.EdgeType)
	}
	if p.LayerName != "" {
		t.Errorf("LayerName = %q, want empty", p.LayerName)
	}
	if p.Pointers || p.CommonRoot {
		t.Error("pointers and common root must be off by default")
	}
	if p.PointerMarker != "#" || p.PointerEdgeType != "refers_to" || p.RootValue != "TEXT" {
		t.Errorf("pointer/root defaults = %q %q %q", p.PointerMarker, p.PointerEdgeType, p.RootValue)
	}
}

func TestParsePropertiesAllKeys(t *testing.T) {
	bag := props.Bag{
		KeyHierarchyNames:  "s,np,func",
		KeyDeleteSpans:     "false",
		KeyStructAnnoName:  "salt::const",
		KeyDefaultValues:   "s:=S, np:=NP",
		KeyEdgeType:        "primary",
		KeyLayerName:       "syntax",
		KeyEdgeNames:       "func",
		KeyPointers:        "true",
		KeyPointerMarker:   "@",
		KeyPointerEdgeType: "secedge",
		KeyCommonRoot:      "true",
		KeyRootValue:       "DOC",
	}
	p, err := ParseProperties(bag)
	if err != nil {
		t.Fatalf("ParseProperties failed: %v", err)
	}
	if p.DeleteSpans || !p.Pointers || !p.CommonRoot {
		t.Errorf("bools = %v %v %v", p.DeleteSpans, p.Pointers, p.CommonRoot)
	}
	if p.DefaultValues["s"] != "S" || p.DefaultValues["np"] != "NP" {
		t.Errorf("DefaultValues = %v", p.DefaultValues)
	}
	if !p.IsEdgeOnly("func") || p.IsEdgeOnly("np") {
		t.Error("IsEdgeOnly mismatch")
	}

	again, err := ParseProperties(p.Bag())
	if err != nil {
		t.Fatalf("ParseProperties(Bag()) failed: %v", err)
	}
	if again.StructAnnoName != p.StructAnnoName || again.RootValue != p.RootValue || again.DefaultValues["np"] != "NP" {
		t.Errorf("Bag() did not preserve properties: %+v", again)
	}
}

func TestParsePropertiesErrors(t *testing.T) {
	tests := []struct {
		name  string
		bag   props.Bag
		field string
	}{
		{"missing names", props.Bag{}, KeyHierarchyNames},
		{"empty names", props.Bag{KeyHierarchyNames: " , "}, KeyHierarchyNames},
		{"duplicate names", props.Bag{KeyHierarchyNames: "a,b,a"}, KeyHierarchyNames},
		{"unknown key", props.Bag{KeyHierarchyNames: "a", "hierarchy.nmaes": "b"}, "hierarchy.nmaes"},
		{"bad bool", props.Bag{KeyHierarchyNames: "a", KeyPointers: "yes please"}, KeyPointers},
		{"bad pairs", props.Bag{KeyHierarchyNames: "a", KeyDefaultValues: "a=A"}, KeyDefaultValues},
		{"edge name not a level", props.Bag{KeyHierarchyNames: "a", KeyEdgeNames: "b"}, KeyEdgeNames},
		{"empty marker", props.Bag{KeyHierarchyNames: "a", KeyPointerMarker: " "}, KeyPointerMarker},
		{"empty struct name", props.Bag{KeyHierarchyNames: "a", KeyStructAnnoName: ""}, KeyStructAnnoName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProperties(tt.bag)
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Error("error should wrap ErrInvalidInput")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	infos := Describe()
	if len(infos) != 12 {
		t.Fatalf("len(Describe()) = %d, want 12", len(infos))
	}
	p := DefaultProperties()
	defaults := p.Bag()
	for _, info := range infos {
		if info.Key == KeyHierarchyNames {
			if !info.Required {
				t.Error("hierarchy.names must be required")
			}
			continue
		}
		if info.Default != "" && defaults[info.Key] != info.Default {
			t.Errorf("%s: Describe default %q, DefaultProperties %q", info.Key, info.Default, defaults[info.Key])
		}
		if info.Help == "" {
			t.Errorf("%s: missing help", info.Key)
		}
	}
}
