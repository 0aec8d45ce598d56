package pubmed

import (
	"encoding/xml"
	"strings"

	"github.com/chronoslabs/chronos/model"
)

// articleSet mirrors the subset of the efetch XML document Chronos reads.
type articleSet struct {
	XMLName  xml.Name       `xml:"PubmedArticleSet"`
	Articles []fetchArticle `xml:"PubmedArticle"`
}

type fetchArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Authors []struct {
				LastName string `xml:"LastName"`
				ForeName string `xml:"ForeName"`
				Initials string `xml:"Initials"`
			} `xml:"AuthorList>Author"`
			Journal struct {
				Title   string `xml:"Title"`
				PubDate struct {
					Year  string `xml:"Year"`
					Month string `xml:"Month"`
					Day   string `xml:"Day"`
				} `xml:"JournalIssue>PubDate"`
			} `xml:"Journal"`
			ELocationIDs []struct {
				Type  string `xml:"EIdType,attr"`
				Value string `xml:",chardata"`
			} `xml:"ELocationID"`
		} `xml:"Article"`
		Keywords []string `xml:"KeywordList>Keyword"`
	} `xml:"MedlineCitation"`
}

// parseArticles decodes an efetch XML payload into article records, one per
// requested PMID and in request order. An ID whose record is missing or
// unusable yields a placeholder entry so the page shape is preserved.
func parseArticles(body []byte, ids []string) []model.Article {
	byPMID := make(map[string]model.Article, len(ids))

	var set articleSet
	if err := xml.Unmarshal(body, &set); err == nil {
		for _, raw := range set.Articles {
			a := convertArticle(raw)
			if a.PMID != "" {
				byPMID[a.PMID] = a
			}
		}
	}

	articles := make([]model.Article, 0, len(ids))
	for _, pmid := range ids {
		if a, ok := byPMID[pmid]; ok && a.Title != "" {
			articles = append(articles, a)
			continue
		}
		articles = append(articles, placeholderArticle(pmid))
	}
	return articles
}

func convertArticle(raw fetchArticle) model.Article {
	cit := raw.Citation
	art := cit.Article

	authors := make([]string, 0, len(art.Authors))
	for _, au := range art.Authors {
		name := strings.TrimSpace(au.ForeName + " " + au.LastName)
		if name == "" {
			name = au.Initials
		}
		if name != "" {
			authors = append(authors, name)
		}
	}

	var doi string
	for _, loc := range art.ELocationIDs {
		if strings.EqualFold(loc.Type, "doi") {
			doi = strings.TrimSpace(loc.Value)
			break
		}
	}

	return model.Article{
		PMID:            strings.TrimSpace(cit.PMID),
		Title:           strings.TrimSpace(art.Title),
		Authors:         authors,
		Abstract:        strings.TrimSpace(strings.Join(art.Abstract.Text, " ")),
		PublicationDate: formatPubDate(art.Journal.PubDate.Year, art.Journal.PubDate.Month, art.Journal.PubDate.Day),
		Journal:         strings.TrimSpace(art.Journal.Title),
		DOI:             doi,
		Keywords:        cit.Keywords,
	}
}

// placeholderArticle stands in for a record that could not be parsed so one
// bad record never fails the whole page.
func placeholderArticle(pmid string) model.Article {
	return model.Article{
		PMID:    pmid,
		Title:   "Article " + pmid,
		Authors: []string{},
	}
}

func formatPubDate(year, month, day string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	parts := []string{year}
	if m := strings.TrimSpace(month); m != "" {
		parts = append(parts, m)
		if d := strings.TrimSpace(day); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, "-")
}
