// Package languages 维护 C 系语言与文件后缀的映射。
// 所有语言共用同一个行扫描分析器，注册表只决定哪些文件参与目录扫描。
package languages

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language 描述一种使用 // 行注释和花括号函数体的语言。
type Language struct {
	Name       string
	Extensions []string
}

// Registry 管理语言注册与后缀映射。
type Registry struct {
	languages     []Language
	languageByExt map[string]Language
}

// builtinLanguages 是内置的 C 系语言清单。
func builtinLanguages() []Language {
	return []Language{
		{Name: "C", Extensions: []string{".c", ".h"}},
		{Name: "C++", Extensions: []string{".cc", ".cpp", ".cxx", ".hh", ".hpp", ".hxx"}},
		{Name: "C#", Extensions: []string{".cs"}},
		{Name: "Java", Extensions: []string{".java"}},
		{Name: "JavaScript", Extensions: []string{".js", ".mjs", ".cjs"}},
		{Name: "TypeScript", Extensions: []string{".ts", ".mts", ".cts"}},
		{Name: "Go", Extensions: []string{".go"}},
		{Name: "Kotlin", Extensions: []string{".kt", ".kts"}},
		{Name: "Swift", Extensions: []string{".swift"}},
		{Name: "Rust", Extensions: []string{".rs"}},
		{Name: "Scala", Extensions: []string{".scala"}},
		{Name: "Dart", Extensions: []string{".dart"}},
		{Name: "PHP", Extensions: []string{".php"}},
	}
}

// NewRegistry 创建并注册所有内置语言。
func NewRegistry() *Registry {
	return newRegistry(builtinLanguages())
}

func newRegistry(languages []Language) *Registry {
	registry := &Registry{
		languages:     languages,
		languageByExt: make(map[string]Language),
	}

	for _, language := range languages {
		for _, ext := range language.Extensions {
			registry.languageByExt[strings.ToLower(ext)] = language
		}
	}

	return registry
}

// ForFile 根据文件后缀查找语言。
func (r *Registry) ForFile(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	language, ok := r.languageByExt[ext]
	return language, ok
}

// Languages 返回已注册语言清单，按名称排序。
func (r *Registry) Languages() []Language {
	result := make([]Language, 0, len(r.languages))
	for _, language := range r.languages {
		extensions := append([]string(nil), language.Extensions...)
		sort.Strings(extensions)
		result = append(result, Language{
			Name:       language.Name,
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀。
func (r *Registry) ExtensionsForLanguage(name string) []string {
	for _, language := range r.languages {
		if language.Name == name {
			extensions := append([]string(nil), language.Extensions...)
			sort.Strings(extensions)
			return extensions
		}
	}
	return nil
}
