package analysis

import (
	"testing"
)

func findComponent(t *testing.T, feats *CodeFeatures, name string) ComponentFeature {
	t.Helper()
	for _, c := range feats.Components {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("component %q not found in %+v", name, feats.Components)
	return ComponentFeature{}
}

func findCall(t *testing.T, feats *CodeFeatures, name string, line int) APICall {
	t.Helper()
	for _, c := range feats.APICalls {
		if c.Name == name && c.Line == line {
			return c
		}
	}
	t.Fatalf("api call %q at line %d not found in %+v", name, line, feats.APICalls)
	return APICall{}
}

func riskLines(feats *CodeFeatures, typ RiskType) []int {
	var lines []int
	for _, r := range feats.PerformanceRisks {
		if r.Type == typ {
			lines = append(lines, r.Line)
		}
	}
	return lines
}

func TestExtract_EmptyInput(t *testing.T) {
	feats := Extract("", "empty.ets")
	if len(feats.Components) != 0 || len(feats.Decorators) != 0 ||
		len(feats.APICalls) != 0 || len(feats.PerformanceRisks) != 0 {
		t.Errorf("expected empty features for empty input, got %+v", feats)
	}
}

func TestExtract_InvalidInput(t *testing.T) {
	feats := Extract("not ((( valid ArkTS @@@", "broken.ets")
	if len(feats.Components) != 0 || len(feats.Decorators) != 0 ||
		len(feats.APICalls) != 0 || len(feats.PerformanceRisks) != 0 {
		t.Errorf("expected empty features for invalid input, got %+v", feats)
	}
}

const classificationSrc = `@Entry
@Component
struct IndexPage {
  @State message: string = 'Hello World'

  aboutToAppear() {
    console.log('ready')
  }

  build() {
    Text(this.message)
  }
}

@Component
struct TitleBar {
  @Prop title: string

  build() {
    Text(this.title)
  }
}

class SettingsService {
  load() {
    return 1
  }
}
`

func TestExtract_ComponentClassification(t *testing.T) {
	feats := Extract(classificationSrc, "index.ets")

	if len(feats.Components) != 3 {
		t.Fatalf("expected 3 components, got %d: %+v", len(feats.Components), feats.Components)
	}

	tests := []struct {
		name string
		kind ComponentKind
		line int
	}{
		{"IndexPage", KindPage, 3},
		{"TitleBar", KindComponent, 16},
		{"SettingsService", KindService, 24},
	}
	for _, tt := range tests {
		comp := findComponent(t, feats, tt.name)
		if comp.Kind != tt.kind {
			t.Errorf("%s: kind = %q, want %q", tt.name, comp.Kind, tt.kind)
		}
		if comp.Line != tt.line {
			t.Errorf("%s: line = %d, want %d", tt.name, comp.Line, tt.line)
		}
	}
}

func TestExtract_LifecycleAndStateFields(t *testing.T) {
	feats := Extract(classificationSrc, "index.ets")

	index := findComponent(t, feats, "IndexPage")
	if !index.HasAboutToAppear {
		t.Error("IndexPage should report aboutToAppear")
	}
	if index.HasAboutToDisappear {
		t.Error("IndexPage should not report aboutToDisappear")
	}
	if index.StateFields != 1 || index.PropFields != 0 || index.LinkFields != 0 {
		t.Errorf("IndexPage state counts = %d/%d/%d, want 1/0/0",
			index.StateFields, index.PropFields, index.LinkFields)
	}

	bar := findComponent(t, feats, "TitleBar")
	if bar.PropFields != 1 || bar.StateFields != 0 {
		t.Errorf("TitleBar state counts = %d/%d, want state 0 prop 1",
			bar.StateFields, bar.PropFields)
	}
	if bar.StateFieldTotal() != 1 {
		t.Errorf("TitleBar StateFieldTotal = %d, want 1", bar.StateFieldTotal())
	}
}

func TestExtract_DecoratorUsages(t *testing.T) {
	feats := Extract(classificationSrc, "index.ets")

	if len(feats.Decorators) != 5 {
		t.Fatalf("expected 5 decorator usages, got %d: %+v", len(feats.Decorators), feats.Decorators)
	}
	wantTargets := map[string]string{
		"Entry": "IndexPage",
		"State": "message",
		"Prop":  "title",
	}
	for name, target := range wantTargets {
		found := false
		for _, d := range feats.Decorators {
			if d.Name == name && d.Target == target {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("decorator %q with target %q not recorded: %+v", name, target, feats.Decorators)
		}
	}
}

func TestExtract_DecoratorWithArguments(t *testing.T) {
	src := `@Component
struct WatchDemo {
  @State @Watch('onCountChange') count: number = 0

  onCountChange() {}
  build() {}
}
`
	feats := Extract(src, "watch.ets")

	var watch *DecoratorUsage
	for i, d := range feats.Decorators {
		if d.Name == "Watch" {
			watch = &feats.Decorators[i]
		}
	}
	if watch == nil {
		t.Fatalf("Watch decorator not recorded: %+v", feats.Decorators)
	}
	if watch.Target != "count" {
		t.Errorf("Watch target = %q, want %q", watch.Target, "count")
	}

	comp := findComponent(t, feats, "WatchDemo")
	if comp.StateFields != 1 {
		t.Errorf("StateFields = %d, want 1", comp.StateFields)
	}
}

const errorHandlingSrc = `async function loadData() {
  try {
    const res = await httpRequest.request('https://example.com/api')
    console.log(res)
  } catch (err) {
    console.error(err)
  }
}

function ping() {
  httpRequest.request('https://example.com/ping')
}

function save() {
  storage.set('k', 'v').catch((err) => console.error(err))
}

function guard(ctx) {
  abilityAccessCtrl.createAtManager().requestPermissionsFromUser(ctx, ['ohos.permission.INTERNET'])
}
`

func TestExtract_APICallErrorHandling(t *testing.T) {
	feats := Extract(errorHandlingSrc, "net.ts")

	tests := []struct {
		name    string
		line    int
		handled bool
	}{
		{"request", 3, true},   // inside try body
		{"log", 4, true},       // inside try body
		{"error", 6, false},    // inside catch handler, not body
		{"request", 11, false}, // bare call
		{"set", 15, true},      // chained .catch
	}
	for _, tt := range tests {
		call := findCall(t, feats, tt.name, tt.line)
		if call.HasErrorHandling != tt.handled {
			t.Errorf("%s line %d: HasErrorHandling = %v, want %v",
				tt.name, tt.line, call.HasErrorHandling, tt.handled)
		}
	}

	req := findCall(t, feats, "request", 3)
	if req.Module != "httpRequest" {
		t.Errorf("request module = %q, want %q", req.Module, "httpRequest")
	}
}

func TestExtract_PermissionCheck(t *testing.T) {
	feats := Extract(errorHandlingSrc, "net.ts")

	perm := findCall(t, feats, "requestPermissionsFromUser", 19)
	if !perm.HasPermissionCheck {
		t.Error("requestPermissionsFromUser call should report a permission check")
	}
	req := findCall(t, feats, "request", 3)
	if req.HasPermissionCheck {
		t.Error("plain request call should not report a permission check")
	}
}

func TestExtract_PerformanceRisks(t *testing.T) {
	src := `@Component
struct ListPage {
  @State dataArray: string[] = []

  build() {
    ForEach(this.dataArray, (item: string) => {
      Text(item)
    })
  }

  startPolling() {
    setInterval(() => {
      this.refresh()
    }, 1000)
  }

  compute(): number {
    const f = () => {
      let total = 0
      for (let i = 0; i < 100; i++) {
        total += i
      }
      return total
    }
    return f()
  }
}
`
	feats := Extract(src, "list.ets")

	tests := []struct {
		typ  RiskType
		line int
	}{
		{RiskNoKey, 6},
		{RiskLargeList, 6},
		{RiskMemoryLeak, 12},
		{RiskExpensiveComputation, 18},
	}
	for _, tt := range tests {
		lines := riskLines(feats, tt.typ)
		if len(lines) != 1 || lines[0] != tt.line {
			t.Errorf("%s: lines = %v, want [%d]", tt.typ, lines, tt.line)
		}
	}
	if len(feats.PerformanceRisks) != 4 {
		t.Errorf("expected 4 risks, got %d: %+v", len(feats.PerformanceRisks), feats.PerformanceRisks)
	}
}

func TestExtract_ForEachWithKeyGenerator(t *testing.T) {
	src := `struct Rows {
  build() {
    ForEach(this.rows, (item: string) => { Text(item) }, (item: string) => item)
  }
}
`
	feats := Extract(src, "rows.ets")
	if lines := riskLines(feats, RiskNoKey); len(lines) != 0 {
		t.Errorf("three-argument ForEach should not flag no-key, got lines %v", lines)
	}
}

func TestExtract_DeepBuilderNesting(t *testing.T) {
	src := `function render() {
  Wrap(Column(Row(Stack(Flex(Badge(Text('x')))))))
}
`
	feats := Extract(src, "deep.ets")
	lines := riskLines(feats, RiskComplexBuild)
	if len(lines) != 1 || lines[0] != 2 {
		t.Errorf("complex-build lines = %v, want [2]", lines)
	}
}

func TestExtract_RiskDeduplication(t *testing.T) {
	src := `function render() {
  ForEach(a, (x: string) => {}); ForEach(b, (y: string) => {})
}
`
	feats := Extract(src, "dup.ets")
	if lines := riskLines(feats, RiskNoKey); len(lines) != 1 {
		t.Errorf("risks on one line should deduplicate by type, got %v", lines)
	}
}

func TestNormalizeStructs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "struct Foo {\n}", "class  Foo {\n}"},
		{"exported", "export struct Foo {}", "export class  Foo {}"},
		{"no space before brace", "struct X{}", "class  X{}"},
		{"word boundary", "mystruct Foo {}", "mystruct Foo {}"},
		{"no declaration", "const struct = 1", "const struct = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(normalizeStructs([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("normalizeStructs(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) != len(tt.in) {
				t.Errorf("length changed: %d -> %d", len(tt.in), len(got))
			}
		})
	}
}

func TestParseSource_LinePreservation(t *testing.T) {
	src := "\n\n@Entry\n@Component\nstruct Late {\n  build() {}\n}\n"
	feats := Extract(src, "late.ets")
	comp := findComponent(t, feats, "Late")
	if comp.Line != 5 {
		t.Errorf("declaration line = %d, want 5", comp.Line)
	}
}
