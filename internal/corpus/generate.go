// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// topic is one subject area of the sample taxonomy.
type topic struct {
	name      string
	keywords  []string
	venues    []string
	titles    []string
	abstracts []string
}

// taxonomy is the fixed topic set sample papers are drawn from.
var taxonomy = []topic{
	{
		name:     "Information Retrieval",
		keywords: []string{"information retrieval", "search engines", "ranking", "relevance", "query processing", "indexing"},
		venues:   []string{"SIGIR", "CIKM", "WSDM", "ECIR", "ICTIR"},
		titles: []string{
			"Advanced Ranking Algorithms for Web Search",
			"Query Expansion Techniques in Information Retrieval",
			"Personalized Search Results Using User Profiles",
			"Efficient Indexing Strategies for Large-Scale Search",
			"Relevance Feedback in Information Retrieval Systems",
			"Semantic Search: Beyond Keyword Matching",
			"Multi-Modal Information Retrieval Approaches",
			"Real-Time Search Ranking Optimization",
		},
		abstracts: []string{
			"This paper presents novel ranking algorithms that improve search result relevance by incorporating user behavior signals and semantic understanding.",
			"We propose a query expansion framework that leverages knowledge graphs to enhance search query understanding and retrieval performance.",
			"This work introduces personalized search techniques that adapt to individual user preferences and search history.",
			"We develop efficient indexing strategies that enable real-time search over large-scale document collections with minimal latency.",
			"This paper explores relevance feedback mechanisms that learn from user interactions to improve search quality iteratively.",
		},
	},
	{
		name:     "Human-Computer Interaction",
		keywords: []string{"user interface", "usability", "user experience", "interaction design", "accessibility", "user studies"},
		venues:   []string{"CHI", "UIST", "CSCW", "IUI", "DIS"},
		titles: []string{
			"Designing Intuitive User Interfaces for Mobile Applications",
			"Accessibility in Modern Web Applications",
			"User Experience Evaluation Methods",
			"Gesture-Based Interaction Systems",
			"Collaborative Filtering in User Interface Design",
			"Adaptive Interfaces Based on User Behavior",
			"Virtual Reality Interaction Paradigms",
			"Voice User Interface Design Principles",
		},
		abstracts: []string{
			"We present design principles for creating intuitive mobile interfaces that reduce cognitive load and improve user satisfaction.",
			"This work addresses accessibility challenges in modern web applications, proposing inclusive design patterns for diverse user needs.",
			"We introduce novel evaluation methods for assessing user experience that combine quantitative metrics with qualitative insights.",
			"This paper explores gesture-based interaction systems that enable natural and efficient human-computer communication.",
			"We propose adaptive interface designs that dynamically adjust based on user behavior patterns and preferences.",
		},
	},
	{
		name:     "Machine Learning",
		keywords: []string{"deep learning", "neural networks", "supervised learning", "reinforcement learning", "classification"},
		venues:   []string{"ICML", "NeurIPS", "ICLR", "AAAI", "IJCAI"},
		titles: []string{
			"Deep Neural Networks for Image Classification",
			"Transfer Learning in Natural Language Processing",
			"Reinforcement Learning for Game Playing",
			"Federated Learning: Privacy-Preserving ML",
			"Explainable AI: Interpreting Model Decisions",
			"Few-Shot Learning Approaches",
			"Adversarial Training for Robust Models",
			"Meta-Learning: Learning to Learn",
		},
		abstracts: []string{
			"This paper presents deep neural network architectures that achieve state-of-the-art performance on image classification tasks.",
			"We explore transfer learning techniques that enable effective model adaptation across different domains and tasks.",
			"This work introduces reinforcement learning algorithms that master complex games through self-play and exploration.",
			"We propose federated learning frameworks that enable collaborative model training while preserving user privacy.",
			"This paper addresses the interpretability challenge in machine learning by developing explainable AI techniques.",
		},
	},
	{
		name:     "Data Mining",
		keywords: []string{"clustering", "pattern mining", "association rules", "classification", "anomaly detection"},
		venues:   []string{"KDD", "ICDM", "SDM", "PAKDD", "PKDD"},
		titles: []string{
			"Efficient Clustering Algorithms for Big Data",
			"Frequent Pattern Mining in Transactional Databases",
			"Anomaly Detection in Time Series Data",
			"Graph Mining Techniques for Social Networks",
			"Text Mining and Topic Modeling",
			"Streaming Data Mining Approaches",
			"Privacy-Preserving Data Mining",
			"Scalable Association Rule Mining",
		},
		abstracts: []string{
			"We present scalable clustering algorithms that efficiently process large-scale datasets using distributed computing frameworks.",
			"This work introduces frequent pattern mining techniques that discover meaningful associations in transactional data.",
			"We propose anomaly detection methods that identify unusual patterns in time series data with high accuracy.",
			"This paper explores graph mining algorithms for analyzing social network structures and community detection.",
			"We develop text mining approaches that extract topics and themes from large document collections.",
		},
	},
	{
		name:     "Natural Language Processing",
		keywords: []string{"text processing", "sentiment analysis", "named entity recognition", "machine translation", "language models"},
		venues:   []string{"ACL", "EMNLP", "NAACL", "COLING", "EACL"},
		titles: []string{
			"Transformer Models for Language Understanding",
			"Sentiment Analysis Using Deep Learning",
			"Named Entity Recognition in Multilingual Text",
			"Neural Machine Translation Systems",
			"Question Answering with Large Language Models",
			"Text Summarization Techniques",
			"Dialogue Systems and Conversational AI",
			"Low-Resource Language Processing",
		},
		abstracts: []string{
			"This paper presents transformer-based models that achieve remarkable performance on various language understanding tasks.",
			"We explore deep learning approaches for sentiment analysis that capture nuanced emotional expressions in text.",
			"This work introduces multilingual named entity recognition systems that handle diverse languages effectively.",
			"We propose neural machine translation architectures that generate high-quality translations across language pairs.",
			"This paper addresses question answering challenges using large language models with improved reasoning capabilities.",
		},
	},
	{
		name:     "Computer Vision",
		keywords: []string{"image recognition", "object detection", "image segmentation", "convolutional networks", "visual understanding"},
		venues:   []string{"CVPR", "ICCV", "ECCV", "BMVC", "WACV"},
		titles: []string{
			"Object Detection Using YOLO Architecture",
			"Semantic Segmentation in Medical Imaging",
			"Face Recognition in Unconstrained Environments",
			"Video Understanding with Temporal Models",
			"3D Object Reconstruction from Images",
			"Image Captioning with Attention Mechanisms",
			"Few-Shot Learning for Visual Recognition",
			"Adversarial Attacks on Vision Systems",
		},
		abstracts: []string{
			"We present object detection systems that achieve real-time performance with high accuracy on diverse object categories.",
			"This work introduces semantic segmentation methods for medical imaging that assist in clinical diagnosis.",
			"We propose face recognition systems that operate effectively in unconstrained real-world environments.",
			"This paper explores video understanding models that capture temporal dynamics and long-range dependencies.",
			"We develop 3D reconstruction techniques that generate accurate models from multiple viewpoint images.",
		},
	},
}

var sampleAuthors = []string{
	"Dr. Sarah Chen", "Prof. Michael Johnson", "Dr. Emily Rodriguez", "Prof. David Kim",
	"Dr. Lisa Wang", "Prof. James Anderson", "Dr. Maria Garcia", "Prof. Robert Taylor",
	"Dr. Jennifer Lee", "Prof. Christopher Brown", "Dr. Amanda White", "Prof. Daniel Martinez",
	"Dr. Jessica Thompson", "Prof. Matthew Davis", "Dr. Nicole Wilson", "Prof. Andrew Moore",
}

// Sample value ranges.
const (
	minYear         = 2018
	maxYear         = 2024
	maxAuthors      = 4
	topicKeywords   = 3
	maxCitations    = 500
	highlyCitedMax  = 2000
	highlyCitedRate = 0.1
)

// Generate returns n sample papers drawn from the fixed topic taxonomy.
// The shape of every paper is deterministic; the values are drawn from a
// PRNG seeded with seed, so equal seeds give equal corpora.
func Generate(n int, seed uint64) []types.Paper {
	rng := rand.New(rand.NewSource(seed))
	papers := make([]types.Paper, n)
	for i := range papers {
		t := taxonomy[rng.Intn(len(taxonomy))]

		authors := make([]string, 1+rng.Intn(maxAuthors))
		for j, idx := range rng.Perm(len(sampleAuthors))[:len(authors)] {
			authors[j] = sampleAuthors[idx]
		}

		keywords := make([]string, 0, topicKeywords+2)
		for _, idx := range rng.Perm(len(t.keywords))[:topicKeywords] {
			keywords = append(keywords, t.keywords[idx])
		}
		keywords = append(keywords, strings.ToLower(t.name)+" research", "academic study")

		citations := rng.Intn(maxCitations + 1)
		if rng.Float64() < highlyCitedRate {
			citations = maxCitations + rng.Intn(highlyCitedMax-maxCitations+1)
		}

		papers[i] = types.Paper{
			ID:        fmt.Sprintf("paper_%04d", i+1),
			Title:     t.titles[rng.Intn(len(t.titles))],
			Authors:   authors,
			Abstract:  t.abstracts[rng.Intn(len(t.abstracts))],
			Keywords:  keywords,
			Year:      minYear + rng.Intn(maxYear-minYear+1),
			Venue:     t.venues[rng.Intn(len(t.venues))],
			Citations: citations,
		}
	}
	return papers
}

// Topics returns the names of the sample taxonomy in order.
func Topics() []string {
	names := make([]string, len(taxonomy))
	for i, t := range taxonomy {
		names[i] = t.name
	}
	return names
}
